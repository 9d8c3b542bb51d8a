package routes

import (
	"fitness-tracker-backend/internal/api/handlers"
	"fitness-tracker-backend/internal/api/middleware"
	"fitness-tracker-backend/internal/auth"
	"fitness-tracker-backend/internal/cache"
	"fitness-tracker-backend/internal/config"
	"fitness-tracker-backend/internal/fitbit"
	"fitness-tracker-backend/internal/repository"
	"fitness-tracker-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services, and handlers and configures all
// routes for the application.
func SetupRoutes(db *gorm.DB, cfg *config.Config, authService *auth.Service) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	validate := validator.New()

	ttlConfig := cache.DefaultTTLConfig()
	cacheService := cache.NewInMemoryCache(ttlConfig.Default, 10*ttlConfig.Default)

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Fitbit collaborators
	oauthClient := fitbit.NewOAuthClient(fitbit.OAuthConfig{
		ClientID:     cfg.FitbitClientID,
		ClientSecret: cfg.FitbitClientSecret,
		RedirectURI:  cfg.FitbitRedirectURI,
	})
	metricsClient := fitbit.NewMetricsClient("")
	proxy := fitbit.NewProxy(metricsClient, oauthClient, tokenRepo)

	// Services
	fitbitService := service.NewFitbitService(
		oauthClient, proxy, accountRepo, tokenRepo, authService, cacheService, ttlConfig)
	userService := service.NewUserService(accountRepo, tokenRepo, authService, validate)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	fitbitHandler := handlers.NewFitbitHandler(fitbitService)
	userHandler := handlers.NewUserHandler(userService)

	authMiddleware := auth.NewMiddleware(authService)

	// Health check route
	router.GET("/health", healthHandler.Health)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Fitbit OAuth flow
	fitbitGroup := router.Group("/fitbit")
	{
		fitbitGroup.GET("/login", authMiddleware.OptionalAuth(), fitbitHandler.Login)
		fitbitGroup.GET("/callback", fitbitHandler.Callback)

		// Cleaned metric endpoints require a session
		metrics := fitbitGroup.Group("")
		metrics.Use(authMiddleware.RequireAuth())
		{
			metrics.GET("/steps", fitbitHandler.Steps)
			metrics.GET("/sleep", fitbitHandler.Sleep)
			metrics.GET("/heartrate", fitbitHandler.HeartRate)
		}
	}

	// Local account routes
	users := router.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.GET("/:id", authMiddleware.RequireAuth(), userHandler.GetAccount)
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}
