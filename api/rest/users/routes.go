package users

import (
	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all user account routes
func RegisterRoutes(router *gin.RouterGroup, store users.Store) {
	usersGroup := router.Group("/users")
	{
		usersGroup.POST("", RegisterHandler(store))
		usersGroup.PUT("/me", auth.AuthMiddleware(), UpdateMeHandler(store))
	}
}
