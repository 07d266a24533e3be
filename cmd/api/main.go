package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-shop-ledger/internal/config"
	"go-shop-ledger/internal/handler"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/internal/service"
	"go-shop-ledger/internal/ws"
	"go-shop-ledger/pkg/cache"
	"go-shop-ledger/pkg/database"
	applog "go-shop-ledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log := applog.Get()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system environment")
	}
	cfg := config.Load()
	applog.SetLevel(cfg.LogLevel)

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseDSN, cfg.DBLogLevel)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// 3. Report cache, optional
	var reportCache cache.ReportCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.ReportCacheTTL)
		cancel()
		if err != nil {
			applog.LogError(log, "main", "main", "connect redis, reports will not be cached", cfg.RedisAddr, err)
		} else {
			reportCache = rc
			defer rc.Close()
			log.WithField("addr", cfg.RedisAddr).Info("report cache enabled")
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	entryRepo := repository.NewStockEntryRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	ledgerService := service.NewLedgerService(db, productRepo, entryRepo, saleRepo, wsHub, reportCache)
	catalogService := service.NewCatalogService(db, categoryRepo, productRepo, reportCache)
	reportService := service.NewReportService(productRepo, categoryRepo, entryRepo, saleRepo, reportCache, time.Local)
	authService := service.NewAuthService(userRepo, wsHub, cfg.TokenTTL)
	userService := service.NewUserService(userRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Shop Ledger v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 7. Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Category:  handler.NewCategoryHandler(catalogService),
		Inventory: handler.NewInventoryHandler(catalogService, ledgerService),
		Dashboard: handler.NewDashboardHandler(reportService),
		User:      handler.NewUserHandler(userService),
	}, userRepo)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Panic("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	wsHub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server exited")
}
