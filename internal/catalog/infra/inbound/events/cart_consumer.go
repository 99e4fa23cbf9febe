package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
)

// CatalogService es lo que el consumidor necesita del catálogo.
type CatalogService interface {
	SetCartAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

// CartConsumer escucha el topic de reservas y mantiene el flag administrativo
// de disponibilidad: un carrito recogido deja de mostrarse como rentable y
// vuelve al catálogo al ser devuelto.
type CartConsumer struct {
	service CatalogService
	log     *zap.Logger
}

func NewCartConsumer(service CatalogService, logger *zap.Logger) *CartConsumer {
	return &CartConsumer{
		service: service,
		log:     logger,
	}
}

// HandleMessage recibe la reserva publicada por el relayer de outbox y
// decide por su estado. Las creaciones y cancelaciones no tocan el flag:
// los conflictos de fechas los gobierna el índice de disponibilidad.
func (c *CartConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var rental rentalDomain.Rental
	if err := json.Unmarshal(payload, &rental); err != nil {
		c.log.Warn("Failed to unmarshal rental event", zap.String("key", key), zap.Error(err))
		return
	}

	switch rental.Status {
	case rentalDomain.RentalActive:
		c.setAvailability(ctx, rental.CartID, false)
	case rentalDomain.RentalCompleted:
		c.setAvailability(ctx, rental.CartID, true)
	default:
		// pending y cancelled no mutan el flag administrativo.
	}
}

func (c *CartConsumer) setAvailability(ctx context.Context, cartID uuid.UUID, available bool) {
	ctxCart, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := c.service.SetCartAvailability(ctxCart, cartID, available); err != nil {
		if errors.Is(err, catalogDomain.ErrCartNotFound) {
			c.log.Warn("Evento de reserva para carrito desconocido",
				zap.String("cart_id", cartID.String()))
			return
		}
		c.log.Warn("Failed to update cart availability",
			zap.String("cart_id", cartID.String()),
			zap.Bool("available", available),
			zap.Error(err),
		)
	} else {
		c.log.Info("Cart availability updated via event",
			zap.String("cart_id", cartID.String()),
			zap.Bool("available", available),
		)
	}
}

func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *CartConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("CartConsumer stopped")
				return
			case msg := <-ch:
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
