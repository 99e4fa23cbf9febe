package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/rentacarritos/shared/events"
)

// Las constantes de los tipos de evento se definen aquí, como valores string.
// Llevan sufijo Event para no chocar con los valores de RentalStatus.
const (
	RentalCreatedEvent   = "rental.created"
	RentalCancelledEvent = "rental.cancelled"
	RentalActivatedEvent = "rental.activated"
	RentalCompletedEvent = "rental.completed"

	// Disparadores externos del ciclo de vida: los emite el sistema de campo
	// al confirmar la recogida o la devolución del carrito.
	PickupConfirmed = "rental.pickup_confirmed"
	ReturnConfirmed = "rental.return_confirmed"
)

const RentalTopic = "rental"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		RentalCreatedEvent: {
			Type:  reflect.TypeOf(Rental{}),
			Topic: RentalTopic,
		},
		RentalCancelledEvent: {
			Type:  reflect.TypeOf(Rental{}),
			Topic: RentalTopic,
		},
		RentalActivatedEvent: {
			Type:  reflect.TypeOf(Rental{}),
			Topic: RentalTopic,
		},
		RentalCompletedEvent: {
			Type:  reflect.TypeOf(Rental{}),
			Topic: RentalTopic,
		},
	}
}
