package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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

// Filtrado por tipo de carrito exacto
type TypeCriteria struct {
	Type CartType
}

func (c TypeCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "type", Op: sharedDomain.OpEq, Value: string(c.Type)}}
}

// Filtrado por disponibilidad
type AvailableCriteria struct {
	Available bool
}

func (c AvailableCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "available", Op: sharedDomain.OpEq, Value: c.Available}}
}

// Filtrado por nombre LIKE / ILIKE
type NameLikeCriteria struct {
	Name string
}

func (c NameLikeCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "nombre", Op: sharedDomain.OpILike, Value: "%" + c.Name + "%"}}
}

// Filtrado por rango de precio por día
type PriceRangeCriteria struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (c PriceRangeCriteria) ToConditions() []sharedDomain.Criterion {
	var conds []sharedDomain.Criterion
	if c.Min != nil {
		conds = append(conds, sharedDomain.Criterion{
			Field: "price_per_day",
			Op:    sharedDomain.OpGte,
			Value: *c.Min,
		})
	}
	if c.Max != nil {
		conds = append(conds, sharedDomain.Criterion{
			Field: "price_per_day",
			Op:    sharedDomain.OpLte,
			Value: *c.Max,
		})
	}
	return conds
}
