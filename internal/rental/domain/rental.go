package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedBus "github.com/davicafu/rentacarritos/shared/platform/bus"
)

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

// IsTerminal indica si el estado no admite más transiciones.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalCompleted || s == RentalCancelled
}

// CanTransitionTo valida la máquina de estados:
// pending -> active -> completed, y pending -> cancelled.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	switch s {
	case RentalPending:
		return next == RentalActive || next == RentalCancelled
	case RentalActive:
		return next == RentalCompleted
	default:
		return false
	}
}

// Rental representa la reserva de un carrito por un usuario en un rango de fechas.
// Las fechas son semiabiertas: [StartDate, EndDate). Una reserva de un día tiene
// EndDate = StartDate + 24h. TotalPrice se calcula una sola vez al crear.
type Rental struct {
	ID         uuid.UUID       `json:"id"`
	CartID     uuid.UUID       `json:"cart_id"`
	UserID     uuid.UUID       `json:"user_id"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Status     RentalStatus    `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PartitionKey particiona por carrito: los eventos de un mismo carrito
// deben consumirse en orden.
func (r *Rental) PartitionKey() string {
	return r.CartID.String()
}

// NumberOfDays devuelve los días completos del rango. Siempre >= 1 en una
// reserva válida.
func (r *Rental) NumberOfDays() int {
	return WholeDaysBetween(r.StartDate, r.EndDate)
}

// Interval devuelve el intervalo de fechas de la reserva.
func (r *Rental) Interval() Interval {
	return Interval{Start: r.StartDate, End: r.EndDate}
}

// TransitionTo aplica una transición de estado o devuelve ErrInvalidTransition
// dejando el estado intacto.
func (r *Rental) TransitionTo(next RentalStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	return nil
}

// HoldsSlot indica si la reserva bloquea su intervalo en el índice de
// disponibilidad. Solo pending y active cuentan; los estados terminales
// liberan el hueco.
func (r *Rental) HoldsSlot() bool {
	return r.Status == RentalPending || r.Status == RentalActive
}

// Verificación estática para asegurar que Rental implementa la interfaz
var _ sharedBus.Keyer = (*Rental)(nil)

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("rental:id:%s", id.String())
}
