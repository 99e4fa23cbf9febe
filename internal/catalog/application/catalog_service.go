package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/davicafu/rentacarritos/internal/catalog/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedEvents "github.com/davicafu/rentacarritos/shared/events"
	sharedCache "github.com/davicafu/rentacarritos/shared/platform/cache"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
	sharedUtils "github.com/davicafu/rentacarritos/shared/utils"
)

// CatalogService define los casos de uso del catálogo de carritos.
type CatalogService struct {
	repo  domain.CartRepository
	cache sharedCache.Cache
	log   *zap.Logger
}

// NewCatalogService constructor
func NewCatalogService(repo domain.CartRepository, cache sharedCache.Cache, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *CatalogService) CreateCart(ctx context.Context, cartType domain.CartType, nombre, descripcion string, pricePerDay decimal.Decimal, imageURL string) (*domain.CartModule, error) {
	if nombre == "" || pricePerDay.IsNegative() {
		return nil, domain.ErrInvalidCart
	}

	cart := &domain.CartModule{
		ID:          uuid.New(),
		Type:        cartType,
		Nombre:      nombre,
		Descripcion: descripcion,
		PricePerDay: pricePerDay,
		ImageURL:    imageURL,
		Available:   true,
		CreatedAt:   time.Now().UTC(),
	}

	evt := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "cart",
		AggregateID:   cart.ID.String(),
		EventType:     domain.CartCreated,
		Payload:       cart,
		CreatedAt:     time.Now().UTC(),
		Processed:     false,
	}

	if err := s.repo.Create(ctx, cart, evt); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(cart.ID), cart, 60, s.log)

	return cart, nil
}

// GetCart obtiene un carrito (primero intenta desde cache).
func (s *CatalogService) GetCart(ctx context.Context, id uuid.UUID) (*domain.CartModule, error) {
	if s.cache != nil {
		var c domain.CartModule
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &c); ok {
			return &c, nil
		}
	}

	var cart *domain.CartModule
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		cart, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(cart.ID), cart, 60, s.log)

	return cart, nil
}

// SetCartAvailability muta el flag administrativo de disponibilidad.
func (s *CatalogService) SetCartAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	evt := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "cart",
		AggregateID:   id.String(),
		EventType:     domain.CartAvailabilityChanged,
		Payload:       sharedEvents.CartAvailabilityChanged{ID: id, Available: available},
		CreatedAt:     time.Now().UTC(),
		Processed:     false,
	}

	if err := s.repo.SetAvailability(ctx, id, available, evt); err != nil {
		return err
	}

	// La entrada cacheada quedó obsoleta; se repobla en la siguiente lectura.
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)

	return nil
}

// ListCarts devuelve carritos aplicando filtros.
func (s *CatalogService) ListCarts(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.CartModule, error) {
	return s.repo.ListByCriteria(ctx, criteria, pagination, sort)
}

// ListAvailable devuelve los carritos con Available == true en orden de catálogo,
// opcionalmente filtrados por tipo.
func (s *CatalogService) ListAvailable(ctx context.Context, typeFilter *domain.CartType) ([]*domain.CartModule, error) {
	criterias := []sharedDomain.Criteria{
		domain.AvailableCriteria{Available: true},
	}
	if typeFilter != nil {
		criterias = append(criterias, domain.TypeCriteria{Type: *typeFilter})
	}

	return s.repo.ListByCriteria(
		ctx,
		sharedDomain.And(criterias...),
		sharedQuery.OffsetPagination{Limit: 100, Offset: 0},
		sharedQuery.Sort{Field: "created_at", Desc: false},
	)
}
