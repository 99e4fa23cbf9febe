package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	catalogApp "github.com/davicafu/rentacarritos/internal/catalog/application"
	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	"github.com/davicafu/rentacarritos/internal/rental/domain"
	userDomain "github.com/davicafu/rentacarritos/internal/user/domain"
	"github.com/davicafu/rentacarritos/tests/mocks"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

// newFixture monta el servicio de reservas con un catálogo en memoria y un
// carrito ya dado de alta a 1200/día.
func newFixture(t *testing.T) (*RentalService, *mocks.InMemoryRentalRepo, *catalogDomain.CartModule, *mocks.InMemoryUserRepo) {
	t.Helper()

	cartRepo := mocks.NewInMemoryCartRepo()
	catalog := catalogApp.NewCatalogService(cartRepo, mocks.NewDummyCache(), zap.NewNop())

	cart, err := catalog.CreateCart(context.Background(),
		catalogDomain.CartPaletas, "Carrito de Paletas Premium", "Paletas artesanales",
		decimal.NewFromInt(1200), "")
	assert.NoError(t, err)

	userRepo := mocks.NewInMemoryUserRepo()
	rentalRepo := mocks.NewInMemoryRentalRepo()

	service := NewRentalService(rentalRepo, catalog, userRepo, mocks.NewDummyCache(), true, zap.NewNop())
	return service, rentalRepo, cart, userRepo
}

func TestCreateRental_Success(t *testing.T) {
	service, repo, cart, _ := newFixture(t)
	userID := uuid.New()

	rental, err := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(3))
	assert.NoError(t, err)
	assert.NotNil(t, rental)
	assert.Equal(t, domain.RentalPending, rental.Status)
	assert.Equal(t, 2, rental.NumberOfDays())
	assert.True(t, decimal.NewFromInt(2400).Equal(rental.TotalPrice))

	// El rango queda bloqueado en el índice.
	assert.False(t, service.IsAvailable(cart.ID, day(1), day(3)))

	// Verificar que se creó un evento Outbox
	assert.Len(t, repo.Outbox, 1)
	assert.Equal(t, domain.RentalCreatedEvent, repo.Outbox[0].EventType)
	assert.Equal(t, rental.ID.String(), repo.Outbox[0].AggregateID)
}

func TestCreateRental_AppendsToUserHistory(t *testing.T) {
	service, _, cart, userRepo := newFixture(t)

	userID := uuid.New()
	userRepo.Users[userID] = &userDomain.User{ID: userID, Nombre: "Usuario Demo", Email: "demo@example.com"}

	r1, err := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(2))
	assert.NoError(t, err)
	r2, err := service.CreateRental(context.Background(), cart.ID, userID, day(5), day(6))
	assert.NoError(t, err)

	// Orden de creación conservado.
	stored := userRepo.Users[userID]
	assert.Equal(t, []uuid.UUID{r1.ID, r2.ID}, stored.RentalIDs)
}

func TestCreateRental_OverlapConflict(t *testing.T) {
	service, repo, cart, _ := newFixture(t)

	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.NoError(t, err)

	_, err = service.CreateRental(context.Background(), cart.ID, uuid.New(), day(2), day(4))
	assert.ErrorIs(t, err, domain.ErrRentalConflict)

	// La reserva en conflicto no se persistió.
	assert.Len(t, repo.Rentals, 1)
}

func TestCreateRental_BackToBack(t *testing.T) {
	service, _, cart, _ := newFixture(t)

	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.NoError(t, err)

	// [d1, d3) y [d3, d5) son consecutivos, no solapan.
	_, err = service.CreateRental(context.Background(), cart.ID, uuid.New(), day(3), day(5))
	assert.NoError(t, err)
}

func TestCreateRental_EmptyRange(t *testing.T) {
	service, _, cart, _ := newFixture(t)

	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(5), day(5))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestCreateRental_InvertedRange(t *testing.T) {
	service, _, cart, _ := newFixture(t)

	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(5), day(2))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestCreateRental_PastStartRejected(t *testing.T) {
	cartRepo := mocks.NewInMemoryCartRepo()
	catalog := catalogApp.NewCatalogService(cartRepo, mocks.NewDummyCache(), zap.NewNop())
	cart, _ := catalog.CreateCart(context.Background(),
		catalogDomain.CartAguas, "Carrito de Aguas Frescas", "", decimal.NewFromInt(1000), "")

	// allowPastStart deshabilitado
	service := NewRentalService(mocks.NewInMemoryRentalRepo(), catalog, nil, mocks.NewDummyCache(), false, zap.NewNop())

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), past, past.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestCreateRental_CartNotFound(t *testing.T) {
	service, _, _, _ := newFixture(t)

	_, err := service.CreateRental(context.Background(), uuid.New(), uuid.New(), day(1), day(3))
	assert.ErrorIs(t, err, catalogDomain.ErrCartNotFound)
}

func TestCreateRental_CartUnavailable(t *testing.T) {
	cartRepo := mocks.NewInMemoryCartRepo()
	catalog := catalogApp.NewCatalogService(cartRepo, mocks.NewDummyCache(), zap.NewNop())
	cart, _ := catalog.CreateCart(context.Background(),
		catalogDomain.CartCharcuteria, "Carrito Charcutería Premium", "", decimal.NewFromInt(1500), "")
	assert.NoError(t, catalog.SetCartAvailability(context.Background(), cart.ID, false))

	service := NewRentalService(mocks.NewInMemoryRentalRepo(), catalog, nil, mocks.NewDummyCache(), true, zap.NewNop())

	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.ErrorIs(t, err, catalogDomain.ErrCartUnavailable)
}

func TestCreateRental_PersistFailureReleasesSlot(t *testing.T) {
	service, repo, cart, _ := newFixture(t)

	repo.FailCreate = errors.New("db down")
	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.Error(t, err)

	// El fallo de persistencia no deja el rango bloqueado.
	assert.True(t, service.IsAvailable(cart.ID, day(1), day(3)))

	_, err = service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.NoError(t, err)
}

func TestCancelRental_FreesSlot(t *testing.T) {
	service, repo, cart, _ := newFixture(t)
	userID := uuid.New()

	rental, err := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(3))
	assert.NoError(t, err)

	cancelled, err := service.CancelRental(context.Background(), rental.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalCancelled, cancelled.Status)

	// Verificar el evento Outbox de cancelación
	assert.Len(t, repo.Outbox, 2)
	assert.Equal(t, domain.RentalCancelledEvent, repo.Outbox[1].EventType)

	// El rango vuelve a estar disponible para otro usuario.
	_, err = service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.NoError(t, err)
}

func TestCancelRental_Forbidden(t *testing.T) {
	service, _, cart, _ := newFixture(t)
	owner := uuid.New()

	rental, err := service.CreateRental(context.Background(), cart.ID, owner, day(1), day(3))
	assert.NoError(t, err)

	_, err = service.CancelRental(context.Background(), rental.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// La reserva sigue bloqueando su rango.
	assert.False(t, service.IsAvailable(cart.ID, day(1), day(3)))
}

func TestCancelRental_AlreadyCancelled(t *testing.T) {
	service, _, cart, _ := newFixture(t)
	userID := uuid.New()

	rental, _ := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(3))
	_, err := service.CancelRental(context.Background(), rental.ID, userID)
	assert.NoError(t, err)

	_, err = service.CancelRental(context.Background(), rental.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelRental_ActiveNotAllowed(t *testing.T) {
	service, _, cart, _ := newFixture(t)
	userID := uuid.New()

	rental, _ := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(3))
	_, err := service.ActivateRental(context.Background(), rental.ID)
	assert.NoError(t, err)

	_, err = service.CancelRental(context.Background(), rental.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelRental_NotFound(t *testing.T) {
	service, _, _, _ := newFixture(t)

	_, err := service.CancelRental(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
}

func TestLifecycle_PendingToCompleted(t *testing.T) {
	service, repo, cart, _ := newFixture(t)

	rental, _ := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))

	activated, err := service.ActivateRental(context.Background(), rental.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalActive, activated.Status)

	// Activa sigue bloqueando el rango.
	assert.False(t, service.IsAvailable(cart.ID, day(1), day(3)))

	completed, err := service.CompleteRental(context.Background(), rental.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RentalCompleted, completed.Status)

	// Completada libera el rango.
	assert.True(t, service.IsAvailable(cart.ID, day(1), day(3)))

	// created + activated + completed
	assert.Len(t, repo.Outbox, 3)
	assert.Equal(t, domain.RentalActivatedEvent, repo.Outbox[1].EventType)
	assert.Equal(t, domain.RentalCompletedEvent, repo.Outbox[2].EventType)
}

func TestCompleteRental_PendingNotAllowed(t *testing.T) {
	service, _, cart, _ := newFixture(t)

	rental, _ := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))

	_, err := service.CompleteRental(context.Background(), rental.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRebuildIndex(t *testing.T) {
	service, repo, cart, _ := newFixture(t)

	_, err := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))
	assert.NoError(t, err)

	// Un servicio nuevo con el mismo repo no conoce el rango ocupado...
	cartRepo := mocks.NewInMemoryCartRepo()
	catalog := catalogApp.NewCatalogService(cartRepo, mocks.NewDummyCache(), zap.NewNop())
	fresh := NewRentalService(repo, catalog, nil, mocks.NewDummyCache(), true, zap.NewNop())
	assert.True(t, fresh.IsAvailable(cart.ID, day(1), day(3)))

	// ...hasta reconstruir el índice desde las reservas abiertas.
	assert.NoError(t, fresh.RebuildIndex(context.Background()))
	assert.False(t, fresh.IsAvailable(cart.ID, day(1), day(3)))
	assert.True(t, fresh.IsAvailable(cart.ID, day(3), day(5)))
}

func TestRentalsForUser_OrderAndFilter(t *testing.T) {
	service, _, cart, _ := newFixture(t)
	userID := uuid.New()

	r1, _ := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(2))
	r2, _ := service.CreateRental(context.Background(), cart.ID, userID, day(5), day(6))
	_, _ = service.CreateRental(context.Background(), cart.ID, uuid.New(), day(10), day(11))

	rentals, err := service.RentalsForUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, rentals, 2)
	assert.Equal(t, r1.ID, rentals[0].ID)
	assert.Equal(t, r2.ID, rentals[1].ID)
}

func TestRentalsByStatus(t *testing.T) {
	service, _, cart, _ := newFixture(t)
	userID := uuid.New()

	r1, _ := service.CreateRental(context.Background(), cart.ID, userID, day(1), day(2))
	r2, _ := service.CreateRental(context.Background(), cart.ID, userID, day(5), day(6))
	_, err := service.CancelRental(context.Background(), r2.ID, userID)
	assert.NoError(t, err)

	pending, err := service.RentalsByStatus(context.Background(), userID, domain.RentalPending)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, r1.ID, pending[0].ID)

	cancelled, err := service.RentalsByStatus(context.Background(), userID, domain.RentalCancelled)
	assert.NoError(t, err)
	assert.Len(t, cancelled, 1)
	assert.Equal(t, r2.ID, cancelled[0].ID)
}

func TestGetRental_CacheHit(t *testing.T) {
	service, repo, cart, _ := newFixture(t)

	rental, _ := service.CreateRental(context.Background(), cart.ID, uuid.New(), day(1), day(3))

	cache := mocks.NewDummyCache()
	cache.SetForTest(domain.CacheKeyByID(rental.ID), rental)

	cached := NewRentalService(repo, nil, nil, cache, true, zap.NewNop())
	got, err := cached.GetRental(context.Background(), rental.ID)
	assert.NoError(t, err)
	assert.Equal(t, rental.ID, got.ID)
	assert.True(t, rental.TotalPrice.Equal(got.TotalPrice))
}

func TestGetRental_NotFound(t *testing.T) {
	service, _, _, _ := newFixture(t)

	_, err := service.GetRental(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
}
