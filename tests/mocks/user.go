package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	userDomain "github.com/davicafu/rentacarritos/internal/user/domain"
)

// InMemoryUserRepo simula UserRepository.
type InMemoryUserRepo struct {
	Users map[uuid.UUID]*userDomain.User
	mu    sync.Mutex
}

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{
		Users: make(map[uuid.UUID]*userDomain.User),
	}
}

func (r *InMemoryUserRepo) Create(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[u.ID]; ok {
		return userDomain.ErrUserAlreadyExists
	}
	r.Users[u.ID] = u
	return nil
}

func (r *InMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryUserRepo) Update(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[u.ID]; !ok {
		return userDomain.ErrUserNotFound
	}
	r.Users[u.ID] = u
	return nil
}

func (r *InMemoryUserRepo) AppendRental(ctx context.Context, userID, rentalID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[userID]
	if !ok {
		return userDomain.ErrUserNotFound
	}
	u.RentalIDs = append(u.RentalIDs, rentalID)
	return nil
}

// StubAuthenticator devuelve siempre el usuario o el error configurado.
type StubAuthenticator struct {
	User *userDomain.User
	Err  error
}

func (a *StubAuthenticator) Authenticate(ctx context.Context, creds userDomain.Credentials) (*userDomain.User, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return a.User, nil
}
