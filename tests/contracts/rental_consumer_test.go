package contracts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	rentalConsumer "github.com/davicafu/rentacarritos/internal/rental/infra/inbound/events"
	"github.com/davicafu/rentacarritos/shared/events"
)

// --- FakeRentalService para pruebas ---
type FakeRentalService struct {
	Activated []uuid.UUID
	Completed []uuid.UUID
}

func (f *FakeRentalService) ActivateRental(ctx context.Context, rentalID uuid.UUID) (*rentalDomain.Rental, error) {
	for _, id := range f.Activated {
		if id == rentalID {
			// Ya estaba activa: transición inválida.
			return nil, rentalDomain.ErrInvalidTransition
		}
	}
	f.Activated = append(f.Activated, rentalID)
	return &rentalDomain.Rental{ID: rentalID, Status: rentalDomain.RentalActive}, nil
}

func (f *FakeRentalService) CompleteRental(ctx context.Context, rentalID uuid.UUID) (*rentalDomain.Rental, error) {
	f.Completed = append(f.Completed, rentalID)
	return &rentalDomain.Rental{ID: rentalID, Status: rentalDomain.RentalCompleted}, nil
}

func buildFieldEvent(eventType string, data interface{}) []byte {
	raw, _ := json.Marshal(data)
	integration := events.IntegrationEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      raw,
	}
	payload, _ := json.Marshal(integration)
	return payload
}

func TestRentalConsumer_HandleMessage(t *testing.T) {
	ctx := context.Background()
	fakeService := &FakeRentalService{}
	consumer := rentalConsumer.NewRentalConsumer(fakeService, zap.NewNop())

	rentalID := uuid.New()

	// --- 1. Confirmación de recogida activa la reserva ---
	payload := buildFieldEvent(rentalDomain.PickupConfirmed, events.PickupConfirmed{RentalID: rentalID})
	consumer.HandleMessage(ctx, rentalID.String(), payload)

	assert.Equal(t, []uuid.UUID{rentalID}, fakeService.Activated)

	// --- 2. Confirmación duplicada se descarta sin efecto ---
	consumer.HandleMessage(ctx, rentalID.String(), payload)

	assert.Len(t, fakeService.Activated, 1)

	// --- 3. Confirmación de devolución completa la reserva ---
	payload = buildFieldEvent(rentalDomain.ReturnConfirmed, events.ReturnConfirmed{RentalID: rentalID})
	consumer.HandleMessage(ctx, rentalID.String(), payload)

	assert.Equal(t, []uuid.UUID{rentalID}, fakeService.Completed)

	// --- 4. Payload malformado se ignora ---
	consumer.HandleMessage(ctx, "", []byte(`{"type": "rental.pickup_confirmed", "data":`))

	assert.Len(t, fakeService.Activated, 1)
	assert.Len(t, fakeService.Completed, 1)

	// --- 5. Tipo desconocido se ignora ---
	payload = buildFieldEvent("unknown.event", events.PickupConfirmed{RentalID: uuid.New()})
	consumer.HandleMessage(ctx, "", payload)

	assert.Len(t, fakeService.Activated, 1)
	assert.Len(t, fakeService.Completed, 1)
}
