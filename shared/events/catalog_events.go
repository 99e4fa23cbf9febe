package events

import (
	"github.com/google/uuid"
)

type CartAvailabilityChanged struct {
	ID        uuid.UUID `json:"id"`
	Available bool      `json:"available"`
}
