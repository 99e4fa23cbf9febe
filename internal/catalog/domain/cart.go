package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedBus "github.com/davicafu/rentacarritos/shared/platform/bus"
)

// CartType clasifica los módulos de carrito del catálogo.
// El conjunto es extensible: un tipo nuevo solo necesita su constante.
type CartType string

const (
	CartPaletas     CartType = "paletas"
	CartAguas       CartType = "aguas"
	CartCharcuteria CartType = "charcuteria"
)

// CartModule representa una unidad física rentable del catálogo.
// Inmutable una vez creado, salvo el flag Available.
type CartModule struct {
	ID          uuid.UUID       `json:"id"`
	Type        CartType        `json:"type"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (c *CartModule) PartitionKey() string {
	return c.ID.String()
}

// Verificación estática para asegurar que CartModule implementa la interfaz
var _ sharedBus.Keyer = (*CartModule)(nil)

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("cart:id:%s", id.String())
}
