package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Interval es un rango de fechas semiabierto [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps aplica el test de solape de intervalos semiabiertos:
// dos rangos consecutivos (uno termina cuando empieza el otro) NO solapan.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// cartSlots guarda los intervalos vigentes de un carrito, indexados por reserva.
// Su mutex serializa check+reserve para ese carrito.
type cartSlots struct {
	mu    sync.Mutex
	slots map[uuid.UUID]Interval // rentalID -> intervalo
}

// AvailabilityIndex responde si un carrito está libre para un rango de fechas.
//
// Mantiene, por carrito, los intervalos de las reservas pending/active. Cada
// carrito tiene su propio mutex (lock striping): dos reservas del mismo carrito
// se serializan, reservas de carritos distintos no se bloquean entre sí. A la
// escala esperada (decenas de reservas por carrito) un barrido lineal del mapa
// es suficiente.
type AvailabilityIndex struct {
	mu    sync.Mutex // protege el mapa de carritos, no sus intervalos
	carts map[uuid.UUID]*cartSlots
}

func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{
		carts: make(map[uuid.UUID]*cartSlots),
	}
}

func (idx *AvailabilityIndex) forCart(cartID uuid.UUID) *cartSlots {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	cs, ok := idx.carts[cartID]
	if !ok {
		cs = &cartSlots{slots: make(map[uuid.UUID]Interval)}
		idx.carts[cartID] = cs
	}
	return cs
}

// IsAvailable comprueba si el carrito está libre para [start, end).
// Solo lectura; para reservar de forma atómica usar Reserve.
func (idx *AvailabilityIndex) IsAvailable(cartID uuid.UUID, start, end time.Time) bool {
	cs := idx.forCart(cartID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return !cs.overlapsLocked(Interval{Start: start, End: end})
}

func (cs *cartSlots) overlapsLocked(iv Interval) bool {
	for _, existing := range cs.slots {
		if existing.Overlaps(iv) {
			return true
		}
	}
	return false
}

// Reserve comprueba solape e inserta el intervalo bajo el mismo lock del
// carrito: dos peticiones concurrentes con rangos solapados no pueden pasar
// las dos. Devuelve ErrRentalConflict si el rango ya está ocupado.
func (idx *AvailabilityIndex) Reserve(cartID, rentalID uuid.UUID, start, end time.Time) error {
	iv := Interval{Start: start, End: end}

	cs := idx.forCart(cartID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.overlapsLocked(iv) {
		return ErrRentalConflict
	}
	cs.slots[rentalID] = iv
	return nil
}

// Release libera el intervalo de una reserva (cancelación o devolución).
// Liberar una reserva desconocida es un no-op.
func (idx *AvailabilityIndex) Release(cartID, rentalID uuid.UUID) {
	cs := idx.forCart(cartID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.slots, rentalID)
}

// Rebuild reconstruye el índice desde las reservas abiertas del repositorio.
// Se usa al arrancar; descarta cualquier estado previo.
func (idx *AvailabilityIndex) Rebuild(rentals []*Rental) {
	idx.mu.Lock()
	idx.carts = make(map[uuid.UUID]*cartSlots)
	idx.mu.Unlock()

	for _, r := range rentals {
		if !r.HoldsSlot() {
			continue
		}
		cs := idx.forCart(r.CartID)
		cs.mu.Lock()
		cs.slots[r.ID] = r.Interval()
		cs.mu.Unlock()
	}
}
