package main

import (
	"time"

	"github.com/diabalance/server/api/rest/auth"
	"github.com/diabalance/server/api/rest/entries"
	"github.com/diabalance/server/api/rest/health"
	"github.com/diabalance/server/api/rest/kubios"
	"github.com/diabalance/server/api/rest/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// login attempts allowed per client IP per period
var loginRate = limiter.Rate{
	Period: 15 * time.Minute,
	Limit:  10,
}

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.CORSAllowedOrigins))
	router.GET("/health", health.Handler)

	loginLimiter := mgin.NewMiddleware(limiter.New(memory.NewStore(), loginRate))

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(
			v1,
			server.userRepo,
			server.tokenManager,
			server.kubiosClient,
			server.bridge,
			server.config.JWTExpiresIn,
			loginLimiter,
		)
		users.RegisterRoutes(v1, server.userRepo)
		entries.RegisterRoutes(v1, server.entryRepo, server.hrvRepo)
		kubios.RegisterRoutes(v1, server.kubiosClient, server.tokenManager, server.entryRepo, server.hrvRepo)
	}
}

// allows browser clients on the configured origins
func CORSMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = origins
	}

	return cors.New(corsConfig)
}
