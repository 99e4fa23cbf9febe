package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	"github.com/davicafu/rentacarritos/internal/storefront/application"
	"github.com/davicafu/rentacarritos/pkg/utils"
)

// StorefrontHandler expone la fachada de consulta de la tienda.
// Solo lecturas; las mutaciones viven en los endpoints de cada contexto.
type StorefrontHandler struct {
	service *application.StorefrontService
}

// NewStorefrontHandler crea un nuevo StorefrontHandler
func NewStorefrontHandler(service *application.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{service: service}
}

// ---------------- Handlers ----------------

// ListAvailableCarts endpoint GET /storefront/carts
func (h *StorefrontHandler) ListAvailableCarts(c *gin.Context) {
	var typeFilter *catalogDomain.CartType
	if typeStr := c.Query("type"); typeStr != "" {
		t := catalogDomain.CartType(typeStr)
		switch t {
		case catalogDomain.CartPaletas, catalogDomain.CartAguas, catalogDomain.CartCharcuteria:
			typeFilter = &t
		default:
			utils.SendBadRequest(c, "invalid cart type")
			return
		}
	}

	carts, err := h.service.ListAvailableCarts(c.Request.Context(), typeFilter)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, carts)
}

// UserRentals endpoint GET /storefront/users/:id/rentals
func (h *StorefrontHandler) UserRentals(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid user id")
		return
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := rentalDomain.RentalStatus(statusStr)
		switch status {
		case rentalDomain.RentalPending, rentalDomain.RentalActive,
			rentalDomain.RentalCompleted, rentalDomain.RentalCancelled:
		default:
			utils.SendBadRequest(c, "invalid rental status")
			return
		}

		rentals, err := h.service.RentalsByStatus(c.Request.Context(), userID, status)
		if err != nil {
			utils.SendInternalServerError(c, err.Error())
			return
		}
		utils.SendSuccess(c, http.StatusOK, rentals)
		return
	}

	rentals, err := h.service.RentalsForUser(c.Request.Context(), userID)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, rentals)
}
