package mockauth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davicafu/rentacarritos/internal/user/domain"
)

// Authenticator simula un servicio de autenticación externo: latencia de red
// y validación trivial de credenciales. En producción se sustituye por el
// adaptador del proveedor real.
type Authenticator struct {
	delay time.Duration
}

// NewAuthenticator constructor. delay emula la latencia del proveedor.
func NewAuthenticator(delay time.Duration) *Authenticator {
	return &Authenticator{delay: delay}
}

// Verificación estática
var _ domain.Authenticator = (*Authenticator)(nil)

// Authenticate valida las credenciales contra el servicio simulado.
// El userId es determinista por email para que accesos repetidos del mismo
// usuario resuelvan siempre la misma identidad.
func (a *Authenticator) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, &domain.AuthError{Kind: domain.AuthNetworkError}
		}
	}

	if !strings.Contains(creds.Email, "@") || creds.Password == "" {
		return nil, &domain.AuthError{Kind: domain.AuthInvalidCredentials}
	}

	return &domain.User{
		ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(creds.Email))),
		Nombre: "Usuario Demo",
		Email:  creds.Email,
		Phone:  "+52 123 456 7890",
		Address: domain.Address{
			Street:  "Calle Principal 123",
			City:    "Ciudad de México",
			State:   "CDMX",
			ZipCode: "01234",
		},
		RentalIDs: []uuid.UUID{},
		CreatedAt: time.Now().UTC(),
	}, nil
}
