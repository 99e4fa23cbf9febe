package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
)

// AnalyticsConsumer replica cada reserva publicada hacia el almacén analítico.
type AnalyticsConsumer struct {
	repo rentalDomain.RentalAnalyticsRepository
	log  *zap.Logger
}

func NewAnalyticsConsumer(repo rentalDomain.RentalAnalyticsRepository, logger *zap.Logger) *AnalyticsConsumer {
	return &AnalyticsConsumer{
		repo: repo,
		log:  logger,
	}
}

func (c *AnalyticsConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var rental rentalDomain.Rental
	if err := json.Unmarshal(payload, &rental); err != nil {
		c.log.Warn("Failed to unmarshal rental event", zap.String("key", key), zap.Error(err))
		return
	}

	ctxLog, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.repo.LogBatch(ctxLog, []*rentalDomain.Rental{&rental}); err != nil {
		c.log.Warn("Failed to log rental to analytics store",
			zap.String("rental_id", rental.ID.String()),
			zap.Error(err),
		)
	}
}

func BackgroundAnalyticsChan(ctx context.Context, ch <-chan interface{}, consumer *AnalyticsConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("AnalyticsConsumer stopped")
				return
			case msg := <-ch:
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
