package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/davicafu/rentacarritos/internal/user/domain"
	"github.com/davicafu/rentacarritos/tests/mocks"
)

func demoUser() *domain.User {
	return &domain.User{
		ID:     uuid.New(),
		Nombre: "Usuario Demo",
		Email:  "demo@example.com",
		Phone:  "+52 123 456 7890",
		Address: domain.Address{
			Street:  "Calle Principal 123",
			City:    "Ciudad de México",
			State:   "CDMX",
			ZipCode: "01234",
		},
		RentalIDs: []uuid.UUID{},
		CreatedAt: time.Now().UTC(),
	}
}

func TestLogin_FirstAccessCreatesUser(t *testing.T) {
	repo := mocks.NewInMemoryUserRepo()
	auth := &mocks.StubAuthenticator{User: demoUser()}
	service := NewUserService(repo, auth, mocks.NewDummyCache(), zap.NewNop())

	user, err := service.Login(context.Background(), domain.Credentials{Email: "demo@example.com", Password: "secret"})
	assert.NoError(t, err)
	assert.NotNil(t, user)

	// El usuario quedó dado de alta localmente.
	stored, err := repo.GetByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Usuario Demo", stored.Nombre)
}

func TestLogin_ExistingUserKeepsProfile(t *testing.T) {
	repo := mocks.NewInMemoryUserRepo()
	existing := demoUser()
	existing.Nombre = "Nombre Editado"
	assert.NoError(t, repo.Create(context.Background(), existing))

	// El autenticador resuelve la misma identidad con los datos por defecto.
	fresh := demoUser()
	fresh.ID = existing.ID
	auth := &mocks.StubAuthenticator{User: fresh}

	service := NewUserService(repo, auth, mocks.NewDummyCache(), zap.NewNop())

	user, err := service.Login(context.Background(), domain.Credentials{Email: "demo@example.com", Password: "secret"})
	assert.NoError(t, err)
	// Gana el perfil local, no el del autenticador.
	assert.Equal(t, "Nombre Editado", user.Nombre)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := mocks.NewInMemoryUserRepo()
	auth := &mocks.StubAuthenticator{Err: &domain.AuthError{Kind: domain.AuthInvalidCredentials}}
	service := NewUserService(repo, auth, mocks.NewDummyCache(), zap.NewNop())

	_, err := service.Login(context.Background(), domain.Credentials{Email: "demo@example.com", Password: "bad"})
	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, domain.AuthInvalidCredentials, authErr.Kind)
	assert.Empty(t, repo.Users)
}

func TestRegisterUser_Success(t *testing.T) {
	repo := mocks.NewInMemoryUserRepo()
	service := NewUserService(repo, nil, mocks.NewDummyCache(), zap.NewNop())

	user, err := service.RegisterUser(context.Background(), "Ana", "ana@example.com", "+52 555 000 1111", domain.Address{City: "CDMX"})
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Empty(t, user.RentalIDs)
	assert.Len(t, repo.Users, 1)
}

func TestRegisterUser_Invalid(t *testing.T) {
	service := NewUserService(mocks.NewInMemoryUserRepo(), nil, mocks.NewDummyCache(), zap.NewNop())

	_, err := service.RegisterUser(context.Background(), "", "ana@example.com", "", domain.Address{})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = service.RegisterUser(context.Background(), "Ana", "", "", domain.Address{})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestGetUser_CacheHit(t *testing.T) {
	user := demoUser()

	cache := mocks.NewDummyCache()
	cache.SetForTest(domain.CacheKeyByID(user.ID), user)

	service := NewUserService(mocks.NewInMemoryUserRepo(), nil, cache, zap.NewNop())

	got, err := service.GetUser(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.Nombre, got.Nombre)
}

func TestGetUser_NotFound(t *testing.T) {
	service := NewUserService(mocks.NewInMemoryUserRepo(), nil, mocks.NewDummyCache(), zap.NewNop())

	_, err := service.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	repo := mocks.NewInMemoryUserRepo()
	user := demoUser()
	assert.NoError(t, repo.Create(context.Background(), user))

	service := NewUserService(repo, nil, mocks.NewDummyCache(), zap.NewNop())

	updated, err := service.UpdateProfile(context.Background(), user.ID, "Nuevo Nombre", "+52 999 888 7777", domain.Address{
		Street: "Avenida Reforma 456", City: "Guadalajara", State: "JAL", ZipCode: "44100",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Nuevo Nombre", updated.Nombre)
	assert.Equal(t, "Guadalajara", updated.Address.City)
	// El email no cambia desde el perfil.
	assert.Equal(t, user.Email, updated.Email)
}

func TestAppendRental_KeepsOrder(t *testing.T) {
	repo := mocks.NewInMemoryUserRepo()
	user := demoUser()
	assert.NoError(t, repo.Create(context.Background(), user))

	service := NewUserService(repo, nil, mocks.NewDummyCache(), zap.NewNop())

	r1, r2 := uuid.New(), uuid.New()
	assert.NoError(t, service.AppendRental(context.Background(), user.ID, r1))
	assert.NoError(t, service.AppendRental(context.Background(), user.ID, r2))

	stored, _ := repo.GetByID(context.Background(), user.ID)
	assert.Equal(t, []uuid.UUID{r1, r2}, stored.RentalIDs)
}

func TestFormattedAddress(t *testing.T) {
	addr := domain.Address{
		Street:  "Calle Principal 123",
		City:    "Ciudad de México",
		State:   "CDMX",
		ZipCode: "01234",
	}
	assert.Equal(t, "Calle Principal 123, Ciudad de México, CDMX 01234", addr.Formatted())
}
