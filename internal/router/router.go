package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outdoortrails/trails-hub-backend/config"
	"github.com/outdoortrails/trails-hub-backend/internal/app/controller"
	"github.com/outdoortrails/trails-hub-backend/internal/middleware"
)

type Router struct {
	profileController  *controller.ProfileController
	categoryController *controller.CategoryController
	gearController     *controller.GearController
	tripController     *controller.TripController
	uploadController   *controller.UploadController
	syncController     *controller.SyncController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	profileController *controller.ProfileController,
	categoryController *controller.CategoryController,
	gearController *controller.GearController,
	tripController *controller.TripController,
	uploadController *controller.UploadController,
	syncController *controller.SyncController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		profileController:  profileController,
		categoryController: categoryController,
		gearController:     gearController,
		tripController:     tripController,
		uploadController:   uploadController,
		syncController:     syncController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Outdoor Trails Hub API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		profiles := v1.Group("/profiles")
		{
			profiles.GET("/me", r.authMiddleware.Authenticate(), r.profileController.GetMe)
			profiles.PUT("/me", r.authMiddleware.Authenticate(), r.profileController.UpdateMe)
			profiles.GET("/:username", r.profileController.GetPublicProfile)
		}

		categories := v1.Group("/categories")
		categories.Use(r.authMiddleware.Authenticate())
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.POST("", r.categoryController.CreateCategory)
			categories.PUT("/order", r.categoryController.ReorderCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.DELETE("/:id", r.categoryController.DeleteCategory)
			categories.POST("/:id/rename", r.categoryController.RenameCategory)
			categories.POST("/:id/delete-with-equipment", r.categoryController.DeleteCategoryWithEquipment)
		}

		gear := v1.Group("/gear")
		gear.Use(r.authMiddleware.Authenticate())
		{
			gear.GET("", r.gearController.ListGear)
			gear.POST("", r.gearController.CreateGear)
			gear.GET("/export", r.gearController.ExportGear)
			gear.GET("/:id", r.gearController.GetGear)
			gear.PUT("/:id", r.gearController.UpdateGear)
			gear.DELETE("/:id", r.gearController.DeleteGear)
		}

		trips := v1.Group("/trips")
		trips.Use(r.authMiddleware.Authenticate())
		{
			trips.GET("", r.tripController.ListTrips)
			trips.POST("", r.tripController.CreateTrip)
			trips.GET("/:id", r.tripController.GetTrip)
			trips.PUT("/:id", r.tripController.UpdateTrip)
			trips.DELETE("/:id", r.tripController.DeleteTrip)
			trips.GET("/:id/gear", r.tripController.ListTripGear)
			trips.PUT("/:id/gear", r.tripController.SetTripGear)
		}

		public := v1.Group("/public")
		{
			public.GET("/trips/:slug", r.tripController.GetPublicTrip)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		sync := v1.Group("/sync")
		sync.Use(r.authMiddleware.AuthenticateWebSocket())
		{
			sync.GET("/ws", r.syncController.WebSocketHandler)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
