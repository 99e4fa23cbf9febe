package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/rentacarritos/shared/events"
)

// Las constantes de los tipos de evento se definen aquí, como valores string.
const (
	CartCreated             = "cart.created"
	CartAvailabilityChanged = "cart.availability_changed"
)

const CatalogTopic = "catalog"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		CartCreated: {
			Type:  reflect.TypeOf(CartModule{}),
			Topic: CatalogTopic,
		},
		CartAvailabilityChanged: {
			Type:  reflect.TypeOf(sharedEvents.CartAvailabilityChanged{}),
			Topic: CatalogTopic,
		},
	}
}
