package http

import "github.com/gin-gonic/gin"

func RegisterRentalRoutes(r *gin.Engine, handler *RentalHandler) {
	rentals := r.Group("/rentals")
	{
		rentals.POST("/", handler.CreateRental)
		rentals.GET("/availability", handler.CheckAvailability)
		rentals.GET("/:id", handler.GetRental)
		rentals.GET("/", handler.ListRentals)
		rentals.POST("/:id/cancel", handler.CancelRental)
		rentals.POST("/:id/activate", handler.ActivateRental)
		rentals.POST("/:id/complete", handler.CompleteRental)
	}
}
