package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/rentacarritos/shared/platform/bus"
)

// Address es la dirección postal del usuario.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Formatted devuelve la dirección en una sola línea para presentación.
func (a Address) Formatted() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
}

// User representa un usuario del sistema. RentalIDs conserva el orden de
// creación de sus reservas (inserción = creación).
type User struct {
	ID        uuid.UUID   `json:"id"`
	Nombre    string      `json:"nombre"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   Address     `json:"address"`
	RentalIDs []uuid.UUID `json:"rental_ids"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) PartitionKey() string {
	return u.ID.String()
}

// Verificación estática para asegurar que User implementa la interfaz
var _ sharedBus.Keyer = (*User)(nil)

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("user:id:%s", id.String())
}
