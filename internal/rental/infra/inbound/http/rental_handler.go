package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	"github.com/davicafu/rentacarritos/internal/rental/application"
	"github.com/davicafu/rentacarritos/internal/rental/domain"
	"github.com/davicafu/rentacarritos/pkg/utils"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
)

// RentalHandler encapsula los endpoints HTTP del ciclo de vida de reservas
type RentalHandler struct {
	service *application.RentalService
}

// NewRentalHandler crea un nuevo RentalHandler
func NewRentalHandler(service *application.RentalService) *RentalHandler {
	return &RentalHandler{service: service}
}

// sendDomainError traduce los errores de dominio a códigos HTTP.
func sendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRentalNotFound):
		utils.SendNotFound(c, "rental not found")
	case errors.Is(err, catalogDomain.ErrCartNotFound):
		utils.SendNotFound(c, "cart not found")
	case errors.Is(err, domain.ErrInvalidDateRange):
		utils.SendBadRequest(c, err.Error())
	case errors.Is(err, catalogDomain.ErrCartUnavailable):
		utils.SendError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRentalConflict):
		utils.SendConflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		utils.SendConflict(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		utils.SendForbidden(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}

// parseDate acepta fecha sola o timestamp RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ---------------- Handlers ----------------

// CreateRental endpoint POST /rentals
func (h *RentalHandler) CreateRental(c *gin.Context) {
	var req struct {
		CartID    string `json:"cart_id" binding:"required"`
		UserID    string `json:"user_id" binding:"required"`
		StartDate string `json:"start_date" binding:"required"` // ISO8601, ej: 2026-01-01
		EndDate   string `json:"end_date" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		utils.SendBadRequest(c, "invalid cart id")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.SendBadRequest(c, "invalid user id")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid start_date format, use YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid end_date format, use YYYY-MM-DD")
		return
	}

	rental, err := h.service.CreateRental(c.Request.Context(), cartID, userID, start, end)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, rental)
}

// GetRental endpoint GET /rentals/:id
func (h *RentalHandler) GetRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid rental id")
		return
	}

	rental, err := h.service.GetRental(c.Request.Context(), id)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, rental)
}

// CancelRental endpoint POST /rentals/:id/cancel
func (h *RentalHandler) CancelRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid rental id")
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.SendBadRequest(c, "invalid user id")
		return
	}

	rental, err := h.service.CancelRental(c.Request.Context(), id, userID)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, rental)
}

// ActivateRental endpoint POST /rentals/:id/activate
func (h *RentalHandler) ActivateRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid rental id")
		return
	}

	rental, err := h.service.ActivateRental(c.Request.Context(), id)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, rental)
}

// CompleteRental endpoint POST /rentals/:id/complete
func (h *RentalHandler) CompleteRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid rental id")
		return
	}

	rental, err := h.service.CompleteRental(c.Request.Context(), id)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, rental)
}

// CheckAvailability endpoint GET /rentals/availability
func (h *RentalHandler) CheckAvailability(c *gin.Context) {
	cartID, err := uuid.Parse(c.Query("cart_id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid cart id")
		return
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		utils.SendBadRequest(c, "invalid start_date format, use YYYY-MM-DD")
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		utils.SendBadRequest(c, "invalid end_date format, use YYYY-MM-DD")
		return
	}

	utils.SendSuccess(c, http.StatusOK, gin.H{
		"cart_id":   cartID,
		"available": h.service.IsAvailable(cartID, start, end),
	})
}

// ListRentals endpoint GET /rentals
func (h *RentalHandler) ListRentals(c *gin.Context) {
	var criterias []sharedDomain.Criteria

	// --- Filtros desde query params ---
	if userStr := c.Query("user_id"); userStr != "" {
		if id, err := uuid.Parse(userStr); err == nil {
			criterias = append(criterias, domain.UserCriteria{UserID: id})
		}
	}

	if cartStr := c.Query("cart_id"); cartStr != "" {
		if id, err := uuid.Parse(cartStr); err == nil {
			criterias = append(criterias, domain.CartCriteria{CartID: id})
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		criterias = append(criterias, domain.StatusCriteria{Status: domain.RentalStatus(statusStr)})
	}

	// Rango de fechas de inicio
	var from, to *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		if v, err := parseDate(fromStr); err == nil {
			from = &v
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if v, err := parseDate(toStr); err == nil {
			to = &v
		}
	}
	if from != nil || to != nil {
		criterias = append(criterias, domain.StartRangeCriteria{From: from, To: to})
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

	rentals, err := h.service.ListRentals(
		c.Request.Context(),
		sharedDomain.And(criterias...),
		sharedQuery.OffsetPagination{Limit: limit, Offset: offset},
		sortParam,
	)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, rentals)
}
