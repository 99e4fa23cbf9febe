package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/rentacarritos/internal/rental/domain"
	"github.com/davicafu/rentacarritos/pkg/utils"
)

// AnalyticsHandler expone las agregaciones del almacén analítico.
type AnalyticsHandler struct {
	repo domain.RentalAnalyticsRepository
}

func NewAnalyticsHandler(repo domain.RentalAnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// DailyTrend endpoint GET /rentals/trend?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *AnalyticsHandler) DailyTrend(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		utils.SendBadRequest(c, "invalid from date, use YYYY-MM-DD")
		return
	}

	to := time.Now().UTC()
	if toStr := c.Query("to"); toStr != "" {
		to, err = parseDate(toStr)
		if err != nil {
			utils.SendBadRequest(c, "invalid to date, use YYYY-MM-DD")
			return
		}
	}

	trend, err := h.repo.GetDailyRentalTrend(c.Request.Context(), from, to)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, trend)
}

// RegisterAnalyticsRoutes registra las rutas analíticas; se omite cuando el
// almacén analítico no está disponible.
func RegisterAnalyticsRoutes(r *gin.Engine, handler *AnalyticsHandler) {
	r.GET("/rentals/trend", handler.DailyTrend)
}
