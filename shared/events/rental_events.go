package events

import (
	"github.com/google/uuid"
)

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos.

// PickupConfirmed lo emite el sistema de campo al entregar el carrito.
type PickupConfirmed struct {
	RentalID uuid.UUID `json:"rental_id"`
}

// ReturnConfirmed lo emite el sistema de campo al recibir el carrito de vuelta.
type ReturnConfirmed struct {
	RentalID uuid.UUID `json:"rental_id"`
}
