package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
)

// ---------- Errores de dominio ----------
//
// Toda validación fallida devuelve un error concreto, nunca un fallo genérico.
// Son condiciones locales y recuperables; la capa de presentación las traduce.
var (
	ErrRentalNotFound    = errors.New("rental not found")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrRentalConflict    = errors.New("rental dates conflict with an existing booking")
	ErrInvalidTransition = errors.New("invalid rental status transition")
	ErrForbidden         = errors.New("rental belongs to another user")
)

// ---------- Interfaces (Ports) ----------

// RentalRepository define las operaciones persistentes para Rental.
type RentalRepository interface {
	// Create persiste la reserva y el evento outbox en la misma transacción.
	Create(ctx context.Context, r *Rental, evt sharedDomain.OutboxEvent) error

	// Debe devolver ErrRentalNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Rental, error)

	// UpdateStatus persiste una transición de estado junto a su evento outbox.
	// Debe devolver ErrRentalNotFound si la reserva no existe.
	UpdateStatus(ctx context.Context, r *Rental, evt sharedDomain.OutboxEvent) error

	// ListByCriteria devuelve reservas según filtro/paginación/orden.
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*Rental, error)

	// ListOpen devuelve las reservas en estado pending o active; alimenta la
	// reconstrucción del índice de disponibilidad al arrancar.
	ListOpen(ctx context.Context) ([]*Rental, error)
}

// RentalAnalyticsRepository registra reservas en el almacén analítico.
type RentalAnalyticsRepository interface {
	LogBatch(ctx context.Context, rentals []*Rental) error
	GetDailyRentalTrend(ctx context.Context, start, end time.Time) ([]DailyRentalTrend, error)
}

// DailyRentalTrend agrega creaciones y cancelaciones por día.
type DailyRentalTrend struct {
	Day            time.Time
	CreatedCount   uint64
	CancelledCount uint64
}
