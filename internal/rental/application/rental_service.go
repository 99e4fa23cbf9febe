package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	"github.com/davicafu/rentacarritos/internal/rental/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedCache "github.com/davicafu/rentacarritos/shared/platform/cache"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
	sharedUtils "github.com/davicafu/rentacarritos/shared/utils"
)

// CartProvider es lo único que el ciclo de vida necesita del catálogo.
type CartProvider interface {
	GetCart(ctx context.Context, id uuid.UUID) (*catalogDomain.CartModule, error)
}

// UserRentals registra la reserva en la lista ordenada del usuario propietario.
type UserRentals interface {
	AppendRental(ctx context.Context, userID, rentalID uuid.UUID) error
}

// RentalService gestiona el ciclo de vida de las reservas: creación,
// cancelación y transiciones de estado, validando contra el índice de
// disponibilidad.
type RentalService struct {
	repo  domain.RentalRepository
	carts CartProvider
	users UserRentals
	index *domain.AvailabilityIndex
	cache sharedCache.Cache
	log   *zap.Logger

	// allowPastStart permite reservar con fecha de inicio pasada (política configurable).
	allowPastStart bool
}

// NewRentalService constructor
func NewRentalService(repo domain.RentalRepository, carts CartProvider, users UserRentals, cache sharedCache.Cache, allowPastStart bool, log *zap.Logger) *RentalService {
	return &RentalService{
		repo:           repo,
		carts:          carts,
		users:          users,
		index:          domain.NewAvailabilityIndex(),
		cache:          cache,
		log:            log,
		allowPastStart: allowPastStart,
	}
}

// RebuildIndex reconstruye el índice de disponibilidad desde las reservas
// abiertas (pending/active) del repositorio. Se llama al arrancar.
func (s *RentalService) RebuildIndex(ctx context.Context) error {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return err
	}
	s.index.Rebuild(open)
	return nil
}

// IsAvailable consulta el índice sin reservar.
func (s *RentalService) IsAvailable(cartID uuid.UUID, start, end time.Time) bool {
	return s.index.IsAvailable(cartID, start, end)
}

// CreateRental crea una reserva pending para [start, end).
//
// La comprobación de solape y la inserción del intervalo son atómicas por
// carrito (lock del índice): dos peticiones concurrentes con rangos solapados
// nunca pasan las dos. Si la persistencia falla, el intervalo se libera y no
// queda estado parcial.
func (s *RentalService) CreateRental(ctx context.Context, cartID, userID uuid.UUID, start, end time.Time) (*domain.Rental, error) {
	if !start.Before(end) {
		return nil, domain.ErrInvalidDateRange
	}
	if !s.allowPastStart {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if start.Before(today) {
			return nil, domain.ErrInvalidDateRange
		}
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.Available {
		return nil, catalogDomain.ErrCartUnavailable
	}

	rentalID := uuid.New()
	if err := s.index.Reserve(cartID, rentalID, start, end); err != nil {
		return nil, err
	}

	days, total, err := domain.Quote(cart.PricePerDay, start, end)
	if err != nil {
		s.index.Release(cartID, rentalID)
		return nil, err
	}

	rental := &domain.Rental{
		ID:         rentalID,
		CartID:     cartID,
		UserID:     userID,
		StartDate:  start,
		EndDate:    end,
		Status:     domain.RentalPending,
		TotalPrice: total,
		CreatedAt:  time.Now().UTC(),
	}

	evt := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "rental",
		AggregateID:   rental.ID.String(),
		EventType:     domain.RentalCreatedEvent,
		Payload:       rental,
		CreatedAt:     time.Now().UTC(),
		Processed:     false,
	}

	if err := s.repo.Create(ctx, rental, evt); err != nil {
		s.index.Release(cartID, rentalID)
		return nil, err
	}

	// El alta en la lista del usuario no invalida la reserva ya persistida.
	if s.users != nil {
		if err := s.users.AppendRental(ctx, userID, rentalID); err != nil {
			s.log.Warn("failed to append rental to user history",
				zap.String("user_id", userID.String()),
				zap.String("rental_id", rentalID.String()),
				zap.Error(err))
		}
	}

	s.log.Info("rental created",
		zap.String("rental_id", rental.ID.String()),
		zap.String("cart_id", cartID.String()),
		zap.Int("days", days))

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(rental.ID), rental, 60, s.log)

	return rental, nil
}

// CancelRental cancela una reserva pending de su propietario y libera el
// intervalo. Cancelar una reserva activa es una operación de política aparte
// y no está soportada: devuelve ErrInvalidTransition.
func (s *RentalService) CancelRental(ctx context.Context, rentalID, requestingUserID uuid.UUID) (*domain.Rental, error) {
	rental, err := s.repo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != requestingUserID {
		return nil, domain.ErrForbidden
	}

	if err := rental.TransitionTo(domain.RentalCancelled); err != nil {
		return nil, err
	}

	evt := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "rental",
		AggregateID:   rental.ID.String(),
		EventType:     domain.RentalCancelledEvent,
		Payload:       rental,
		CreatedAt:     time.Now().UTC(),
		Processed:     false,
	}

	if err := s.repo.UpdateStatus(ctx, rental, evt); err != nil {
		return nil, err
	}

	s.index.Release(rental.CartID, rental.ID)
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(rental.ID), s.log)

	return rental, nil
}

// ActivateRental marca la recogida confirmada (pending -> active).
// Lo dispara un sistema externo, normalmente vía consumidor de eventos.
func (s *RentalService) ActivateRental(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	return s.transition(ctx, rentalID, domain.RentalActive, domain.RentalActivatedEvent)
}

// CompleteRental marca la devolución confirmada (active -> completed) y
// libera el intervalo del índice.
func (s *RentalService) CompleteRental(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	rental, err := s.transition(ctx, rentalID, domain.RentalCompleted, domain.RentalCompletedEvent)
	if err != nil {
		return nil, err
	}
	s.index.Release(rental.CartID, rental.ID)
	return rental, nil
}

func (s *RentalService) transition(ctx context.Context, rentalID uuid.UUID, next domain.RentalStatus, eventType string) (*domain.Rental, error) {
	rental, err := s.repo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if err := rental.TransitionTo(next); err != nil {
		return nil, err
	}

	evt := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "rental",
		AggregateID:   rental.ID.String(),
		EventType:     eventType,
		Payload:       rental,
		CreatedAt:     time.Now().UTC(),
		Processed:     false,
	}

	if err := s.repo.UpdateStatus(ctx, rental, evt); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(rental.ID), s.log)

	return rental, nil
}

// GetRental obtiene una reserva (primero intenta desde cache).
func (s *RentalService) GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	if s.cache != nil {
		var r domain.Rental
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &r); ok {
			return &r, nil
		}
	}

	var rental *domain.Rental
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		rental, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(rental.ID), rental, 60, s.log)

	return rental, nil
}

// RentalsForUser devuelve el historial del usuario en orden de creación.
func (s *RentalService) RentalsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Rental, error) {
	return s.repo.ListByCriteria(
		ctx,
		sharedDomain.And(domain.UserCriteria{UserID: userID}),
		sharedQuery.OffsetPagination{Limit: 100, Offset: 0},
		sharedQuery.Sort{Field: "created_at", Desc: false},
	)
}

// RentalsByStatus devuelve el historial del usuario filtrado por estado.
func (s *RentalService) RentalsByStatus(ctx context.Context, userID uuid.UUID, status domain.RentalStatus) ([]*domain.Rental, error) {
	return s.repo.ListByCriteria(
		ctx,
		sharedDomain.And(
			domain.UserCriteria{UserID: userID},
			domain.StatusCriteria{Status: status},
		),
		sharedQuery.OffsetPagination{Limit: 100, Offset: 0},
		sharedQuery.Sort{Field: "created_at", Desc: false},
	)
}

// ListRentals devuelve reservas aplicando filtros arbitrarios.
func (s *RentalService) ListRentals(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Rental, error) {
	return s.repo.ListByCriteria(ctx, criteria, pagination, sort)
}
