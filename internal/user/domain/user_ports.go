package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUser       = errors.New("invalid user")
)

// ---------- Autenticación externa ----------

// Credentials viajan tal cual al servicio de autenticación externo.
type Credentials struct {
	Email    string
	Password string
}

// AuthErrorKind clasifica los fallos del servicio de autenticación.
type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthNetworkError       AuthErrorKind = "network_error"
	AuthUserNotFound       AuthErrorKind = "user_not_found"
	AuthRegistrationFailed AuthErrorKind = "registration_failed"
)

// AuthError es el resultado tipado de una autenticación fallida.
// El mensaje localizado para el usuario final lo pone la capa de presentación.
type AuthError struct {
	Kind AuthErrorKind
}

func (e *AuthError) Error() string {
	return "authentication failed: " + string(e.Kind)
}

// Authenticator es el puerto hacia el servicio de autenticación externo.
// El motor de reservas solo consume el userId ya resuelto; nunca valida
// credenciales por sí mismo.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*User, error)
}

// ---------- Interfaces (Ports) ----------

// UserRepository define las operaciones persistentes para User.
type UserRepository interface {
	// Debe devolver ErrUserAlreadyExists si la entidad ya existe.
	Create(ctx context.Context, u *User) error

	// Debe devolver ErrUserNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Update persiste cambios de perfil (nombre, teléfono, dirección).
	Update(ctx context.Context, u *User) error

	// AppendRental añade la reserva al final de la lista del usuario,
	// conservando el orden de creación.
	AppendRental(ctx context.Context, userID, rentalID uuid.UUID) error
}
