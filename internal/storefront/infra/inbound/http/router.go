package http

import "github.com/gin-gonic/gin"

func RegisterStorefrontRoutes(r *gin.Engine, handler *StorefrontHandler) {
	storefront := r.Group("/storefront")
	{
		storefront.GET("/carts", handler.ListAvailableCarts)
		storefront.GET("/users/:id/rentals", handler.UserRentals)
	}
}
