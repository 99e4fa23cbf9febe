package http

import "github.com/gin-gonic/gin"

func RegisterUserRoutes(r *gin.Engine, handler *UserHandler) {
	r.POST("/auth/login", handler.Login)

	users := r.Group("/users")
	{
		users.POST("/", handler.RegisterUser)
		users.GET("/:id", handler.GetUser)
		users.PUT("/:id", handler.UpdateProfile)
	}
}
