package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davicafu/rentacarritos/internal/catalog/application"
	"github.com/davicafu/rentacarritos/internal/catalog/domain"
	"github.com/davicafu/rentacarritos/pkg/utils"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
)

// CartHandler encapsula los endpoints HTTP del catálogo
type CartHandler struct {
	service *application.CatalogService
}

// NewCartHandler crea un nuevo CartHandler
func NewCartHandler(service *application.CatalogService) *CartHandler {
	return &CartHandler{service: service}
}

// parseCartType valida el tipo recibido contra el conjunto conocido.
func parseCartType(s string) (domain.CartType, bool) {
	switch domain.CartType(s) {
	case domain.CartPaletas, domain.CartAguas, domain.CartCharcuteria:
		return domain.CartType(s), true
	default:
		return "", false
	}
}

// ---------------- Handlers ----------------

// CreateCart endpoint POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	var req struct {
		Type        string `json:"type" binding:"required"`
		Nombre      string `json:"nombre" binding:"required"`
		Descripcion string `json:"descripcion"`
		PricePerDay string `json:"price_per_day" binding:"required"`
		ImageURL    string `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cartType, ok := parseCartType(req.Type)
	if !ok {
		utils.SendBadRequest(c, "invalid cart type")
		return
	}

	price, err := decimal.NewFromString(req.PricePerDay)
	if err != nil {
		utils.SendBadRequest(c, "invalid price_per_day")
		return
	}

	cart, err := h.service.CreateCart(c.Request.Context(), cartType, req.Nombre, req.Descripcion, price, req.ImageURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCart) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusCreated, cart)
}

// GetCart endpoint GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid cart id")
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			utils.SendNotFound(c, "cart not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, cart)
}

// SetAvailability endpoint PATCH /carts/:id/availability
func (h *CartHandler) SetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid cart id")
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	if err := h.service.SetCartAvailability(c.Request.Context(), id, *req.Available); err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			utils.SendNotFound(c, "cart not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCarts endpoint GET /carts
func (h *CartHandler) ListCarts(c *gin.Context) {
	var criterias []sharedDomain.Criteria

	// --- Filtros desde query params ---
	if typeStr := c.Query("type"); typeStr != "" {
		cartType, ok := parseCartType(typeStr)
		if !ok {
			utils.SendBadRequest(c, "invalid cart type")
			return
		}
		criterias = append(criterias, domain.TypeCriteria{Type: cartType})
	}

	if nombre := c.Query("nombre"); nombre != "" {
		criterias = append(criterias, domain.NameLikeCriteria{Name: nombre})
	}

	if availStr := c.Query("available"); availStr != "" {
		criterias = append(criterias, domain.AvailableCriteria{Available: availStr == "true"})
	}

	// Precio
	var min, max *decimal.Decimal
	if minStr := c.Query("min_price"); minStr != "" {
		if v, err := decimal.NewFromString(minStr); err == nil {
			min = &v
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if v, err := decimal.NewFromString(maxStr); err == nil {
			max = &v
		}
	}
	if min != nil || max != nil {
		criterias = append(criterias, domain.PriceRangeCriteria{Min: min, Max: max})
	}

	// --- Sort ---
	sortParam := sharedQuery.Sort{Field: "created_at", Desc: false}
	if sortField := c.Query("sort_field"); sortField != "" {
		sortParam.Field = sortField
		sortParam.Desc = c.Query("sort_desc") == "true"
	}

	// --- Paginación ---
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			limit = v
		}
	}
	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil {
			offset = v
		}
	}

	carts, err := h.service.ListCarts(
		c.Request.Context(),
		sharedDomain.And(criterias...),
		sharedQuery.OffsetPagination{Limit: limit, Offset: offset},
		sortParam,
	)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, carts)
}
