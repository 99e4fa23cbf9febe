package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	catalogApp "github.com/davicafu/rentacarritos/internal/catalog/application"
	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	rentalApp "github.com/davicafu/rentacarritos/internal/rental/application"
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	userDomain "github.com/davicafu/rentacarritos/internal/user/domain"
	"github.com/davicafu/rentacarritos/tests/mocks"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

// newStorefront compone la fachada sobre los servicios reales con
// repositorios en memoria.
func newStorefront(t *testing.T) (*StorefrontService, *catalogApp.CatalogService, *rentalApp.RentalService, *mocks.InMemoryUserRepo) {
	t.Helper()

	catalog := catalogApp.NewCatalogService(mocks.NewInMemoryCartRepo(), mocks.NewDummyCache(), zap.NewNop())
	userRepo := mocks.NewInMemoryUserRepo()
	rentals := rentalApp.NewRentalService(mocks.NewInMemoryRentalRepo(), catalog, userRepo, mocks.NewDummyCache(), true, zap.NewNop())

	return NewStorefrontService(catalog, rentals), catalog, rentals, userRepo
}

func TestListAvailableCarts(t *testing.T) {
	storefront, catalog, _, _ := newStorefront(t)
	ctx := context.Background()

	paletas, err := catalog.CreateCart(ctx, catalogDomain.CartPaletas, "Carrito de Paletas", "", decimal.NewFromInt(1200), "")
	assert.NoError(t, err)
	fuera, err := catalog.CreateCart(ctx, catalogDomain.CartAguas, "Carrito de Aguas", "", decimal.NewFromInt(1000), "")
	assert.NoError(t, err)

	assert.NoError(t, catalog.SetCartAvailability(ctx, fuera.ID, false))

	carts, err := storefront.ListAvailableCarts(ctx, nil)
	assert.NoError(t, err)
	assert.Len(t, carts, 1)
	assert.Equal(t, paletas.ID, carts[0].ID)
}

func TestListAvailableCarts_TypeFilter(t *testing.T) {
	storefront, catalog, _, _ := newStorefront(t)
	ctx := context.Background()

	_, err := catalog.CreateCart(ctx, catalogDomain.CartPaletas, "Carrito de Paletas", "", decimal.NewFromInt(1200), "")
	assert.NoError(t, err)
	charcuteria, err := catalog.CreateCart(ctx, catalogDomain.CartCharcuteria, "Carrito Charcutería", "", decimal.NewFromInt(1500), "")
	assert.NoError(t, err)

	tipo := catalogDomain.CartCharcuteria
	carts, err := storefront.ListAvailableCarts(ctx, &tipo)
	assert.NoError(t, err)
	assert.Len(t, carts, 1)
	assert.Equal(t, charcuteria.ID, carts[0].ID)
}

func TestRentalsForUser_Order(t *testing.T) {
	storefront, catalog, rentals, userRepo := newStorefront(t)
	ctx := context.Background()

	cart, err := catalog.CreateCart(ctx, catalogDomain.CartPaletas, "Carrito de Paletas", "", decimal.NewFromInt(1200), "")
	assert.NoError(t, err)

	user := &userDomain.User{ID: uuid.New(), Nombre: "Usuario Demo", Email: "demo@example.com"}
	userRepo.Users[user.ID] = user

	r1, err := rentals.CreateRental(ctx, cart.ID, user.ID, day(1), day(3))
	assert.NoError(t, err)
	r2, err := rentals.CreateRental(ctx, cart.ID, user.ID, day(5), day(7))
	assert.NoError(t, err)

	history, err := storefront.RentalsForUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, r1.ID, history[0].ID)
	assert.Equal(t, r2.ID, history[1].ID)
}

func TestRentalsByStatus(t *testing.T) {
	storefront, catalog, rentals, userRepo := newStorefront(t)
	ctx := context.Background()

	cart, err := catalog.CreateCart(ctx, catalogDomain.CartAguas, "Carrito de Aguas", "", decimal.NewFromInt(1000), "")
	assert.NoError(t, err)

	user := &userDomain.User{ID: uuid.New(), Nombre: "Usuario Demo", Email: "demo@example.com"}
	userRepo.Users[user.ID] = user

	activa, err := rentals.CreateRental(ctx, cart.ID, user.ID, day(1), day(3))
	assert.NoError(t, err)
	cancelada, err := rentals.CreateRental(ctx, cart.ID, user.ID, day(5), day(7))
	assert.NoError(t, err)
	_, err = rentals.CancelRental(ctx, cancelada.ID, user.ID)
	assert.NoError(t, err)

	pendientes, err := storefront.RentalsByStatus(ctx, user.ID, rentalDomain.RentalPending)
	assert.NoError(t, err)
	assert.Len(t, pendientes, 1)
	assert.Equal(t, activa.ID, pendientes[0].ID)

	canceladas, err := storefront.RentalsByStatus(ctx, user.ID, rentalDomain.RentalCancelled)
	assert.NoError(t, err)
	assert.Len(t, canceladas, 1)
	assert.Equal(t, cancelada.ID, canceladas[0].ID)
}
