package main

import (
	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/config"
	"github.com/diabalance/server/internal/kubios"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// holds all dependencies and state for the API server
type Server struct {
	db           *pgxpool.Pool
	config       *config.Config
	userRepo     *users.Repository
	entryRepo    *entries.Repository
	hrvRepo      *hrv.Repository
	tokenManager *users.TokenManager
	kubiosClient *kubios.Client
	bridge       *kubios.Bridge
	router       *gin.Engine
}
