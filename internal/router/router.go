// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/handlers"
	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/middleware"
	"github.com/skillswap/skillswap-backend/internal/services"
	"github.com/skillswap/skillswap-backend/internal/stream"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, hub *stream.Hub) *gin.Engine {
	// Metrics registry
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)
	googleProvider := services.NewGoogleOAuthProvider(cfg.Google)

	authService := services.NewAuthService(db, cfg, notificationService, googleProvider)
	userService := services.NewUserService(db, cfg, storageService)
	listingService := services.NewListingService(db, cfg, storageService)
	reviewService := services.NewReviewService(db)
	orderService := services.NewOrderService(db, cfg, notificationService, collector)
	chatService := services.NewChatService(db, hub, collector)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	listingHandler := handlers.NewListingHandler(listingService)
	reviewHandler := handlers.NewReviewHandler(reviewService, collector)
	orderHandler := handlers.NewOrderHandler(orderService)
	chatHandler := handlers.NewChatHandler(chatService, collector)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Environment, cfg.Frontend.BaseURL))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/google/login", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Listing routes
		listings := v1.Group("/listings")
		{
			listings.GET("", middleware.OptionalAuth(), listingHandler.Search)

			protected := listings.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", listingHandler.Create)
				protected.GET("/mine", listingHandler.Mine)
				protected.POST("/upload", middleware.UploadRateLimit(), listingHandler.Upload)
			}

			listings.GET("/:id", middleware.OptionalAuth(), listingHandler.Get)

			// Reviews hang off their listing
			listings.POST("/:id/reviews", middleware.AuthRequired(), reviewHandler.Submit)
			listings.GET("/:id/reviews", reviewHandler.ListForListing)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("/checkout", orderHandler.Checkout)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("/:id/complete", orderHandler.Complete)
			orders.POST("/:id/cancel", orderHandler.Cancel)
		}

		// Stripe webhook: verified by signature, not by bearer token
		v1.POST("/payments/webhook", orderHandler.Webhook)

		// Conversation routes
		conversations := v1.Group("/conversations")
		conversations.Use(middleware.AuthRequired())
		{
			conversations.GET("", chatHandler.ListConversations)
			conversations.POST("", chatHandler.StartConversation)
			conversations.GET("/stream", chatHandler.StreamInbox)
			conversations.GET("/:id/messages", chatHandler.ListMessages)
			conversations.POST("/:id/messages", middleware.MessageRateLimit(), chatHandler.SendMessage)
			conversations.GET("/:id/stream", chatHandler.StreamConversation)
			conversations.POST("/:id/read", chatHandler.MarkRead)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetProfile)
			users.GET("/:id/reviews", reviewHandler.ListByAuthor)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.POST("/upload-avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
