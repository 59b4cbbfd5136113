package main

import (
	"log"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/routes"
	"github.com/junaidrashid-git/storefront-api/services/cart"
	"github.com/junaidrashid-git/storefront-api/services/catalog"
	"github.com/junaidrashid-git/storefront-api/services/inventory"
	"github.com/junaidrashid-git/storefront-api/services/purchase"
	"github.com/junaidrashid-git/storefront-api/services/report"
)

func main() {
	log.Println("✅ Starting application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	// Init DB
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Purchase notifications: local websocket clients, plus redis when configured
	hub := notify.NewHub(logger)
	defer hub.Close()

	notifiers := notify.Multi{hub}
	if cfg.RedisURL != "" {
		publisher, err := notify.NewRedisPublisher(cfg.RedisURL, cfg.PurchaseChannel)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		logger.Info("publishing purchases to redis", "channel", cfg.PurchaseChannel)
	}

	catalogService := catalog.NewService(db, logger)
	cartService := cart.NewService(db, logger)
	ledger := inventory.NewLedger(db, logger)

	deps := routes.Deps{
		Tokens:            auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Catalog:           catalogService,
		Carts:             cartService,
		Ledger:            ledger,
		Recorder:          purchase.NewRecorder(db, catalogService, cartService, ledger, logger, purchase.WithNotifier(notifiers)),
		Reports:           report.NewService(db),
		Hub:               hub,
		LowStockThreshold: cfg.LowStockThreshold,
	}

	// Gin setup
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// Stock imports are small spreadsheets
	r.MaxMultipartMemory = 32 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, deps)

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

