package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	sharedEvents "github.com/davicafu/rentacarritos/shared/events"
	sharedUtils "github.com/davicafu/rentacarritos/shared/utils"
)

// RentalService son las transiciones que el sistema de campo dispara.
type RentalService interface {
	ActivateRental(ctx context.Context, rentalID uuid.UUID) (*rentalDomain.Rental, error)
	CompleteRental(ctx context.Context, rentalID uuid.UUID) (*rentalDomain.Rental, error)
}

// RentalConsumer procesa las confirmaciones de recogida y devolución que
// llegan del sistema de campo y las traduce a transiciones de estado.
type RentalConsumer struct {
	service RentalService
	log     *zap.Logger
}

func NewRentalConsumer(service RentalService, logger *zap.Logger) *RentalConsumer {
	return &RentalConsumer{
		service: service,
		log:     logger,
	}
}

func (c *RentalConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case rentalDomain.PickupConfirmed:
		sharedUtils.UnmarshalAndHandle[sharedEvents.PickupConfirmed](c.log, base.Data, func(evt sharedEvents.PickupConfirmed) {
			c.withContext(ctx, evt.RentalID, func(ctxRental context.Context) error {
				_, err := c.service.ActivateRental(ctxRental, evt.RentalID)
				return err
			}, "Rental activated via pickup confirmation", evt)
		})

	case rentalDomain.ReturnConfirmed:
		sharedUtils.UnmarshalAndHandle[sharedEvents.ReturnConfirmed](c.log, base.Data, func(evt sharedEvents.ReturnConfirmed) {
			c.withContext(ctx, evt.RentalID, func(ctxRental context.Context) error {
				_, err := c.service.CompleteRental(ctxRental, evt.RentalID)
				return err
			}, "Rental completed via return confirmation", evt)
		})

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

// withContext ejecuta la acción con contexto limitado y log.
// Una transición inválida sobre un estado terminal es un evento duplicado
// o fuera de orden: se registra y se descarta, no se reintenta.
func (c *RentalConsumer) withContext(ctx context.Context, id uuid.UUID, action func(ctx context.Context) error, successMsg string, evt interface{}) {
	ctxRental, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := action(ctxRental); err != nil {
		if errors.Is(err, rentalDomain.ErrInvalidTransition) {
			c.log.Info("Evento de ciclo de vida duplicado o fuera de orden ignorado",
				zap.String("rental_id", id.String()),
				zap.Error(err))
			return
		}

		c.log.Warn("Failed to process rental event",
			zap.String("rental_id", id.String()),
			zap.Any("event", evt),
			zap.Error(err),
		)
	} else {
		c.log.Info(successMsg,
			zap.String("rental_id", id.String()),
			zap.Any("event", evt),
		)
	}
}

func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *RentalConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("RentalConsumer stopped")
				return
			case msg := <-ch:
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
