package main

import (
	"context"
	"fmt"
	"time"

	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/config"
	"github.com/diabalance/server/internal/kubios"
	"github.com/diabalance/server/internal/logger"
	"github.com/diabalance/server/internal/migrations"
	"github.com/diabalance/server/internal/tokencache"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrations.Run(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, err
	}

	userRepo := users.NewRepository(db)
	entryRepo := entries.NewRepository(db)
	hrvRepo := hrv.NewRepository(db)

	tokenManager := users.NewTokenManager(userRepo, tokencache.New())

	kubiosClient := kubios.NewClient(kubios.Config{
		LoginURL:    cfg.KubiosLoginURL,
		APIBaseURL:  cfg.KubiosAPIURL,
		ClientID:    cfg.KubiosClientID,
		RedirectURI: cfg.KubiosRedirectURI,
		UserAgent:   cfg.KubiosUserAgent,
	})

	bridge := kubios.NewBridge(kubiosClient, userRepo)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		db:           db,
		config:       cfg,
		userRepo:     userRepo,
		entryRepo:    entryRepo,
		hrvRepo:      hrvRepo,
		tokenManager: tokenManager,
		kubiosClient: kubiosClient,
		bridge:       bridge,
		router:       router,
	}

	RegisterRoutes(router, server)

	logger.Info("server initialized", "environment", cfg.Environment)

	return server, nil
}
