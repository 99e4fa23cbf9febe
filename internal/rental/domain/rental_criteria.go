package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
)

// ---------------- Implementaciones concretas ----------------

// Filtrado por ID exacto
type IDCriteria struct {
	ID uuid.UUID
}

func (c IDCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "id", Op: sharedDomain.OpEq, Value: c.ID}}
}

// Filtrado por usuario propietario
type UserCriteria struct {
	UserID uuid.UUID
}

func (c UserCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "user_id", Op: sharedDomain.OpEq, Value: c.UserID}}
}

// Filtrado por carrito reservado
type CartCriteria struct {
	CartID uuid.UUID
}

func (c CartCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "cart_id", Op: sharedDomain.OpEq, Value: c.CartID}}
}

// Filtrado por estado
type StatusCriteria struct {
	Status RentalStatus
}

func (c StatusCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "status", Op: sharedDomain.OpEq, Value: string(c.Status)}}
}

// Filtrado por rango de fechas de inicio
type StartRangeCriteria struct {
	From *time.Time
	To   *time.Time
}

func (c StartRangeCriteria) ToConditions() []sharedDomain.Criterion {
	var conds []sharedDomain.Criterion
	if c.From != nil {
		conds = append(conds, sharedDomain.Criterion{
			Field: "start_date",
			Op:    sharedDomain.OpGte,
			Value: *c.From,
		})
	}
	if c.To != nil {
		conds = append(conds, sharedDomain.Criterion{
			Field: "start_date",
			Op:    sharedDomain.OpLt,
			Value: *c.To,
		})
	}
	return conds
}
