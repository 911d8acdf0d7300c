package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"arteideas-backend/internal/config"
	"arteideas-backend/internal/gemini"
	"arteideas-backend/internal/handlers"
	"arteideas-backend/internal/middleware"
	"arteideas-backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Initialize Gemini image editing client
	editorClient := gemini.New(gemini.Options{
		APIKey:        cfg.GeminiAPIKey,
		BaseURL:       cfg.GeminiBaseURL,
		APIVersion:    cfg.GeminiAPIVersion,
		Logger:        logger,
		MaxConcurrent: cfg.MaxConcurrentGenerations,
	})

	// Initialize in-memory store and idle session janitor
	st := store.New(store.Options{SessionTTL: cfg.SessionTTL})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := st.PurgeIdleSessions(); n > 0 {
				logger.Info("purged idle customizer sessions", "count", n)
			}
		}
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	productsHandler := handlers.NewProductsHandler()
	customizerHandler := handlers.NewCustomizerHandler(st, editorClient, cfg)
	editorHandler := handlers.NewEditorHandler(st)
	aiEditorHandler := handlers.NewAIEditorHandler(st)
	cartHandler := handlers.NewCartHandler(st)
	checkoutHandler := handlers.NewCheckoutHandler(st)
	ordersHandler := handlers.NewOrdersHandler(st)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Guest token minting (no auth)
	router.POST("/auth/guest", authHandler.GuestToken)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Catalog routes
	api.GET("/products", productsHandler.ListProducts)
	api.GET("/products/:product_id", productsHandler.GetProduct)
	api.GET("/formats", productsHandler.ListFormats)

	// Customizer session lifecycle
	api.POST("/sessions", customizerHandler.CreateSession)
	api.GET("/sessions/:session_id", customizerHandler.GetSession)
	api.DELETE("/sessions/:session_id", customizerHandler.DeleteSession)

	// Upload and cropping
	api.POST("/sessions/:session_id/upload", customizerHandler.Upload)
	api.PUT("/sessions/:session_id/format", customizerHandler.SelectFormat)
	api.POST("/sessions/:session_id/crop/drag", customizerHandler.DragRect)
	api.POST("/sessions/:session_id/crop/apply", customizerHandler.ApplyCrop)
	api.POST("/sessions/:session_id/crop/new", customizerHandler.NewCrop)
	api.GET("/sessions/:session_id/image", customizerHandler.GetImage)
	api.PATCH("/sessions/:session_id/fields", customizerHandler.UpdateFields)
	api.POST("/sessions/:session_id/submit", customizerHandler.Submit)

	// Color adjustment editor
	api.POST("/sessions/:session_id/editor", editorHandler.Enter)
	api.PUT("/sessions/:session_id/editor/filters", editorHandler.Preview)
	api.POST("/sessions/:session_id/editor/reset", editorHandler.Reset)
	api.POST("/sessions/:session_id/editor/save", editorHandler.Save)
	api.POST("/sessions/:session_id/editor/cancel", editorHandler.Cancel)

	// AI editing assistant
	api.POST("/sessions/:session_id/ai", aiEditorHandler.Enter)
	api.GET("/sessions/:session_id/ai", aiEditorHandler.GetState)
	api.POST("/sessions/:session_id/ai/messages", aiEditorHandler.SendMessage)
	api.PUT("/sessions/:session_id/ai/history", aiEditorHandler.SelectHistory)
	api.POST("/sessions/:session_id/ai/save", aiEditorHandler.Save)
	api.POST("/sessions/:session_id/ai/cancel", aiEditorHandler.Cancel)

	// Cart
	api.GET("/cart", cartHandler.GetCart)
	api.PATCH("/cart/items/:item_id", cartHandler.UpdateItem)
	api.DELETE("/cart/items/:item_id", cartHandler.RemoveItem)

	// Checkout and orders
	api.POST("/checkout", checkoutHandler.SubmitCheckout)
	api.POST("/checkout/confirm", checkoutHandler.ConfirmPayment)
	api.GET("/orders", ordersHandler.ListOrders)
	api.GET("/orders/:order_id", ordersHandler.GetOrder)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
