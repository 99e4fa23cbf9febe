package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/rentacarritos/internal/user/domain"
	sharedCache "github.com/davicafu/rentacarritos/shared/platform/cache"
)

// UserService define los casos de uso relacionados con User.
type UserService struct {
	repo  domain.UserRepository
	auth  domain.Authenticator
	cache sharedCache.Cache
	log   *zap.Logger
}

// NewUserService constructor
func NewUserService(repo domain.UserRepository, auth domain.Authenticator, cache sharedCache.Cache, log *zap.Logger) *UserService {
	return &UserService{
		repo:  repo,
		auth:  auth,
		cache: cache,
		log:   log,
	}
}

// Login delega en el servicio de autenticación externo y garantiza que el
// usuario resuelto existe localmente (lo da de alta en el primer acceso).
func (s *UserService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	user, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if err != domain.ErrUserNotFound {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) RegisterUser(ctx context.Context, nombre, email, phone string, address domain.Address) (*domain.User, error) {
	if nombre == "" || email == "" {
		return nil, domain.ErrInvalidUser
	}

	user := &domain.User{
		ID:        uuid.New(),
		Nombre:    nombre,
		Email:     email,
		Phone:     phone,
		Address:   address,
		RentalIDs: []uuid.UUID{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(user.ID), user, 60, s.log)

	return user, nil
}

// GetUser obtiene un usuario (primero intenta desde cache).
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.cache != nil {
		var u domain.User
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &u); ok {
			return &u, nil
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(user.ID), user, 60, s.log)

	return user, nil
}

// UpdateProfile actualiza nombre, teléfono y dirección del usuario.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, nombre, phone string, address domain.Address) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Nombre = nombre
	user.Phone = phone
	user.Address = address

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(user.ID), user, 60, s.log)

	return user, nil
}

// AppendRental registra la reserva en la lista ordenada del usuario.
// Implementa el puerto UserRentals del contexto rental.
func (s *UserService) AppendRental(ctx context.Context, userID, rentalID uuid.UUID) error {
	if err := s.repo.AppendRental(ctx, userID, rentalID); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(userID), s.log)
	return nil
}
