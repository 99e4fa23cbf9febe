package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
)

// InMemoryCartRepo simula CartRepository con outbox incluido.
type InMemoryCartRepo struct {
	Carts  map[uuid.UUID]*catalogDomain.CartModule
	Outbox []sharedDomain.OutboxEvent
	mu     sync.Mutex

	// FailCreate fuerza el error configurado en la siguiente llamada a Create.
	FailCreate error
}

func NewInMemoryCartRepo() *InMemoryCartRepo {
	return &InMemoryCartRepo{
		Carts:  make(map[uuid.UUID]*catalogDomain.CartModule),
		Outbox: []sharedDomain.OutboxEvent{},
	}
}

func (r *InMemoryCartRepo) Create(ctx context.Context, c *catalogDomain.CartModule, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return r.FailCreate
	}
	if _, ok := r.Carts[c.ID]; ok {
		return catalogDomain.ErrCartAlreadyExists
	}
	r.Carts[c.ID] = c
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryCartRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.CartModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Carts[id]
	if !ok {
		return nil, catalogDomain.ErrCartNotFound
	}
	return c, nil
}

func (r *InMemoryCartRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Carts[id]
	if !ok {
		return catalogDomain.ErrCartNotFound
	}
	c.Available = available
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryCartRepo) ListByCriteria(
	ctx context.Context,
	criteria sharedDomain.Criteria,
	pagination sharedQuery.Pagination,
	s sharedQuery.Sort,
) ([]*catalogDomain.CartModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*catalogDomain.CartModule
	for _, c := range r.Carts {
		if criteria == nil {
			list = append(list, c)
			continue
		}

		matchesAll := true
		for _, cond := range criteria.ToConditions() {
			if !matchCartCriterion(c, cond) {
				matchesAll = false
				break
			}
		}
		if matchesAll {
			list = append(list, c)
		}
	}

	if s.Field != "" {
		switch s.Field {
		case "nombre":
			sort.Slice(list, func(i, j int) bool {
				if s.Desc {
					return list[i].Nombre > list[j].Nombre
				}
				return list[i].Nombre < list[j].Nombre
			})
		case "created_at":
			sort.Slice(list, func(i, j int) bool {
				if s.Desc {
					return list[i].CreatedAt.After(list[j].CreatedAt)
				}
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			})
		}
	}

	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		start := p.Offset
		if start > len(list) {
			return []*catalogDomain.CartModule{}, nil
		}
		end := start + p.Limit
		if end > len(list) {
			end = len(list)
		}
		return list[start:end], nil
	}

	return list, nil
}

// matchCartCriterion evalúa un criterio contra un carrito en memoria.
func matchCartCriterion(c *catalogDomain.CartModule, crit sharedDomain.Criterion) bool {
	op := strings.ToUpper(strings.TrimSpace(string(crit.Op)))

	switch crit.Field {
	case "id":
		switch v := crit.Value.(type) {
		case uuid.UUID:
			return c.ID == v
		case string:
			return c.ID.String() == v
		default:
			return c.ID.String() == fmt.Sprintf("%v", crit.Value)
		}

	case "type":
		return string(c.Type) == fmt.Sprintf("%v", crit.Value)

	case "available":
		v, ok := crit.Value.(bool)
		if !ok {
			return true
		}
		return c.Available == v

	case "nombre":
		val := fmt.Sprintf("%v", crit.Value)
		if op == "ILIKE" || op == "LIKE" {
			p := strings.Trim(val, "%")
			if op == "ILIKE" {
				return strings.Contains(strings.ToLower(c.Nombre), strings.ToLower(p))
			}
			return strings.Contains(c.Nombre, p)
		}
		return c.Nombre == val

	default:
		// criterio desconocido: no filtrar (mejor ser permisivo en mock)
		return true
	}
}
