package http

import "github.com/gin-gonic/gin"

func RegisterCartRoutes(r *gin.Engine, handler *CartHandler) {
	carts := r.Group("/carts")
	{
		carts.POST("/", handler.CreateCart)
		carts.GET("/:id", handler.GetCart)
		carts.GET("/", handler.ListCarts)
		carts.PATCH("/:id/availability", handler.SetAvailability)
	}
}
