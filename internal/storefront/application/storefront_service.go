package application

import (
	"context"

	"github.com/google/uuid"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
)

// CatalogReader es la vista de solo lectura del catálogo.
type CatalogReader interface {
	ListAvailable(ctx context.Context, typeFilter *catalogDomain.CartType) ([]*catalogDomain.CartModule, error)
}

// RentalReader es la vista de solo lectura del historial de reservas.
type RentalReader interface {
	RentalsForUser(ctx context.Context, userID uuid.UUID) ([]*rentalDomain.Rental, error)
	RentalsByStatus(ctx context.Context, userID uuid.UUID, status rentalDomain.RentalStatus) ([]*rentalDomain.Rental, error)
}

// StorefrontService es la fachada de consulta para la capa de presentación:
// composición de solo lectura sobre catálogo y reservas, sin mutaciones.
type StorefrontService struct {
	catalog CatalogReader
	rentals RentalReader
}

// NewStorefrontService constructor
func NewStorefrontService(catalog CatalogReader, rentals RentalReader) *StorefrontService {
	return &StorefrontService{
		catalog: catalog,
		rentals: rentals,
	}
}

// ListAvailableCarts devuelve los carritos rentables en orden de catálogo,
// opcionalmente filtrados por tipo.
func (s *StorefrontService) ListAvailableCarts(ctx context.Context, typeFilter *catalogDomain.CartType) ([]*catalogDomain.CartModule, error) {
	return s.catalog.ListAvailable(ctx, typeFilter)
}

// RentalsForUser devuelve el historial del usuario en orden de creación.
func (s *StorefrontService) RentalsForUser(ctx context.Context, userID uuid.UUID) ([]*rentalDomain.Rental, error) {
	return s.rentals.RentalsForUser(ctx, userID)
}

// RentalsByStatus devuelve el historial del usuario filtrado por estado.
func (s *StorefrontService) RentalsByStatus(ctx context.Context, userID uuid.UUID, status rentalDomain.RentalStatus) ([]*rentalDomain.Rental, error) {
	return s.rentals.RentalsByStatus(ctx, userID, status)
}
