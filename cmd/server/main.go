package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outdoortrails/trails-hub-backend/config"
	"github.com/outdoortrails/trails-hub-backend/internal/app/controller"
	"github.com/outdoortrails/trails-hub-backend/internal/app/repository"
	"github.com/outdoortrails/trails-hub-backend/internal/app/service"
	"github.com/outdoortrails/trails-hub-backend/internal/cache"
	"github.com/outdoortrails/trails-hub-backend/internal/db"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
	"github.com/outdoortrails/trails-hub-backend/internal/router"
	"github.com/outdoortrails/trails-hub-backend/internal/scheduler"
	"github.com/outdoortrails/trails-hub-backend/internal/storage"
	"github.com/outdoortrails/trails-hub-backend/internal/validation"
	ws "github.com/outdoortrails/trails-hub-backend/internal/websocket"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	redisclient "github.com/outdoortrails/trails-hub-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Outdoor Trails Hub Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	conn, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Public profile cache; runs uncached when Redis is not configured
	var profileCache cache.ProfileCache = cache.NoopProfileCache{}
	if cfg.Redis.Enabled() {
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, profile cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redisclient.Close(client)
			profileCache = cache.NewRedisProfileCache(client, cfg.Redis.ProfileCacheTTL)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Dashboard sync hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	gearRepo := repository.NewGearRepository(conn)
	tripRepo := repository.NewTripRepository(conn)

	// Initialize services
	validator := validation.New()
	profileService := service.NewProfileService(profileRepo, gearRepo, tripRepo, profileCache, validator)
	publisher := service.NewProfileCacheInvalidator(hub, profileRepo, profileCache)
	categoryService := service.NewCategoryService(conn, categoryRepo, gearRepo, publisher)
	gearService := service.NewGearService(conn, gearRepo, categoryRepo, validator, publisher)
	tripService := service.NewTripService(conn, tripRepo, gearRepo, validator, publisher)

	// Initialize controllers
	profileController := controller.NewProfileController(profileService)
	categoryController := controller.NewCategoryController(categoryService)
	gearController := controller.NewGearController(gearService)
	tripController := controller.NewTripController(tripService)
	uploadController := controller.NewUploadController(storage.NewS3Storage(&cfg.S3))
	syncController := controller.NewSyncController(hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	engine := router.NewRouter(
		profileController,
		categoryController,
		gearController,
		tripController,
		uploadController,
		syncController,
		authMiddleware,
		cfg,
	).Setup()

	statsScheduler := scheduler.NewProfileStatsScheduler(profileService, cfg.Scheduler.StatsRefreshCron)
	if err := statsScheduler.Start(); err != nil {
		logger.Warn("Profile stats scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer statsScheduler.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}
