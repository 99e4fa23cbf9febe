package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
)

// InMemoryRentalRepo simula RentalRepository con outbox incluido.
type InMemoryRentalRepo struct {
	Rentals map[uuid.UUID]*rentalDomain.Rental
	Outbox  []sharedDomain.OutboxEvent
	mu      sync.Mutex

	// FailCreate fuerza el error configurado en la siguiente llamada a Create.
	FailCreate error
}

func NewInMemoryRentalRepo() *InMemoryRentalRepo {
	return &InMemoryRentalRepo{
		Rentals: make(map[uuid.UUID]*rentalDomain.Rental),
		Outbox:  []sharedDomain.OutboxEvent{},
	}
}

func (r *InMemoryRentalRepo) Create(ctx context.Context, rental *rentalDomain.Rental, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		err := r.FailCreate
		r.FailCreate = nil
		return err
	}
	r.Rentals[rental.ID] = rental
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryRentalRepo) GetByID(ctx context.Context, id uuid.UUID) (*rentalDomain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.Rentals[id]
	if !ok {
		return nil, rentalDomain.ErrRentalNotFound
	}
	// Copia para que el test no mute el estado interno por accidente.
	cp := *rental
	return &cp, nil
}

func (r *InMemoryRentalRepo) UpdateStatus(ctx context.Context, rental *rentalDomain.Rental, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.Rentals[rental.ID]
	if !ok {
		return rentalDomain.ErrRentalNotFound
	}
	stored.Status = rental.Status
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryRentalRepo) ListByCriteria(
	ctx context.Context,
	criteria sharedDomain.Criteria,
	pagination sharedQuery.Pagination,
	s sharedQuery.Sort,
) ([]*rentalDomain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*rentalDomain.Rental
	for _, rental := range r.Rentals {
		if criteria == nil {
			list = append(list, rental)
			continue
		}

		matchesAll := true
		for _, cond := range criteria.ToConditions() {
			if !matchRentalCriterion(rental, cond) {
				matchesAll = false
				break
			}
		}
		if matchesAll {
			list = append(list, rental)
		}
	}

	if s.Field == "created_at" || s.Field == "" {
		sort.Slice(list, func(i, j int) bool {
			if s.Desc {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}

	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		start := p.Offset
		if start > len(list) {
			return []*rentalDomain.Rental{}, nil
		}
		end := start + p.Limit
		if end > len(list) {
			end = len(list)
		}
		return list[start:end], nil
	}

	return list, nil
}

func (r *InMemoryRentalRepo) ListOpen(ctx context.Context) ([]*rentalDomain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*rentalDomain.Rental
	for _, rental := range r.Rentals {
		if rental.HoldsSlot() {
			list = append(list, rental)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

// matchRentalCriterion evalúa un criterio contra una reserva en memoria.
func matchRentalCriterion(rental *rentalDomain.Rental, crit sharedDomain.Criterion) bool {
	switch crit.Field {
	case "id":
		if v, ok := crit.Value.(uuid.UUID); ok {
			return rental.ID == v
		}
		return rental.ID.String() == fmt.Sprintf("%v", crit.Value)

	case "user_id":
		if v, ok := crit.Value.(uuid.UUID); ok {
			return rental.UserID == v
		}
		return rental.UserID.String() == fmt.Sprintf("%v", crit.Value)

	case "cart_id":
		if v, ok := crit.Value.(uuid.UUID); ok {
			return rental.CartID == v
		}
		return rental.CartID.String() == fmt.Sprintf("%v", crit.Value)

	case "status":
		return string(rental.Status) == fmt.Sprintf("%v", crit.Value)

	default:
		return true
	}
}
