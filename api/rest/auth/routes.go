package auth

import (
	"time"

	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes. The limiter middleware guards the
// credential endpoints; pass nil to disable it.
func RegisterRoutes(router *gin.RouterGroup, store users.Store, tokens *users.TokenManager, provider KubiosAuthenticator, federator FederatedAuthenticator, tokenTTL time.Duration, limiter gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		credentials := authGroup.Group("")
		if limiter != nil {
			credentials.Use(limiter)
		}
		credentials.POST("/login", LoginHandler(store, tokens, provider, tokenTTL))
		credentials.POST("/federated-login", FederatedLoginHandler(federator, tokens, tokenTTL))

		authGroup.POST("/logout", auth.AuthMiddleware(), LogoutHandler(tokens))
		authGroup.GET("/me", auth.AuthMiddleware(), GetMeHandler(store))
		authGroup.GET("/validate", auth.AuthMiddleware(), ValidateTokenHandler(store))
	}
}
