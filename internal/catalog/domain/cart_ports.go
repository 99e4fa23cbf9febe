package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
)

// ---------- Errores de dominio ----------
var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartAlreadyExists = errors.New("cart already exists")
	ErrCartUnavailable   = errors.New("cart not available")
	ErrInvalidCart       = errors.New("invalid cart")
)

// ---------- Interfaces (Ports) ----------

// CartRepository define las operaciones persistentes para CartModule.
// El catálogo nunca borra carritos; como mucho los marca como no disponibles.
type CartRepository interface {
	// Debe devolver ErrCartAlreadyExists si la entidad ya existe.
	Create(ctx context.Context, c *CartModule, evt sharedDomain.OutboxEvent) error

	// Debe devolver ErrCartNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*CartModule, error)

	// SetAvailability muta el flag y registra el evento en la misma transacción.
	// Debe devolver ErrCartNotFound si el carrito no existe.
	SetAvailability(ctx context.Context, id uuid.UUID, available bool, evt sharedDomain.OutboxEvent) error

	// ListByCriteria devuelve carritos según filtro/paginación/orden.
	// Sin orden explícito se respeta el orden de alta en el catálogo (created_at asc).
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*CartModule, error)
}
