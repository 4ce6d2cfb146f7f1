package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tably-system/config"
	"tably-system/internal/gateway/handlers"
	"tably-system/internal/gateway/middleware"
	"tably-system/internal/history"
	"tably-system/internal/order"
	"tably-system/internal/scan"
	"tably-system/internal/session"
	"tably-system/internal/upstream"
	"tably-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.JwtSecret = []byte(cfg.Auth.JWTSecret)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Token, cfg.Upstream.Timeout)
	sessions := session.NewManager()

	resolver := scan.NewResolver(
		upstreamClient,
		scan.NewRedisCache(redisClient),
		cfg.Guest.ScanCacheTTL,
		cfg.Guest.RetryDelay,
		logger,
	)

	var historyStore *history.Store
	if cfg.DB.DSN != "" {
		db, err := history.NewConnection(cfg.DB.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to history database: %v", err)
		}
		if err := history.MigrateHistoryDB(db); err != nil {
			log.Fatalf("Failed to migrate history database: %v", err)
		}
		historyStore = history.NewStore(db)
	} else {
		log.Println("HISTORY_DSN not set, order history disabled")
	}

	watches := handlers.NewWatchRegistry()

	var (
		orderService *order.Service
		orderTracker *order.Tracker
		orderHandler *handlers.OrderHTTPHandler
	)
	if historyStore != nil {
		orderService = order.NewService(upstreamClient, historyStore, logger)
		orderTracker = order.NewTracker(upstreamClient, historyStore, cfg.Guest.PollInterval, logger)
		orderHandler = handlers.NewOrderHTTPHandler(orderService, orderTracker, historyStore, sessions, watches)
	} else {
		orderService = order.NewService(upstreamClient, nil, logger)
		orderTracker = order.NewTracker(upstreamClient, nil, cfg.Guest.PollInterval, logger)
		orderHandler = handlers.NewOrderHTTPHandler(orderService, orderTracker, nil, sessions, watches)
	}

	scanHandler := handlers.NewScanHTTPHandler(resolver, sessions, cfg.Auth.TokenTTL)
	sessionHandler := handlers.NewSessionHTTPHandler(sessions, watches)
	menuHandler := handlers.NewMenuHTTPHandler(upstreamClient, redisClient, cfg.Guest.MenuCacheTTL)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		public.POST("/guest/scan", middleware.RateLimit("10-M"), scanHandler.Scan)
		public.GET("/outlets/:id/menu", menuHandler.GetActiveMenu)
		public.GET("/businesses/:ref/outlets", menuHandler.ListOutlets)
	}

	// --- Guest API Group ---
	guest := r.Group("/api/v1/guest")
	guest.Use(middleware.GuestAuth())
	{
		guest.GET("/session", sessionHandler.GetState)
		guest.POST("/session/reset", sessionHandler.Reset)

		cartGroup := guest.Group("/cart")
		{
			cartGroup.POST("/items", sessionHandler.AddCartLine)
			cartGroup.PATCH("/items/:index", sessionHandler.UpdateCartLine)
			cartGroup.DELETE("/items/:index", sessionHandler.RemoveCartLine)
			cartGroup.DELETE("", sessionHandler.ClearCart)
		}

		notificationGroup := guest.Group("/notifications")
		{
			notificationGroup.GET("", sessionHandler.ListNotifications)
			notificationGroup.POST("/read-all", sessionHandler.MarkNotificationsRead)
		}

		orderGroup := guest.Group("/orders")
		{
			orderGroup.POST("", orderHandler.Submit)
			orderGroup.GET("", orderHandler.ListHistory)
			orderGroup.GET("/:id", orderHandler.GetOrder)
			orderGroup.POST("/:id/track", orderHandler.StartTracking)
			orderGroup.DELETE("/track", orderHandler.StopTracking)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
