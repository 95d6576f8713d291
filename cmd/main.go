package main

import (
	"fmt"
	"log"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"comanda/internal/caching"
	"comanda/internal/config"
	"comanda/internal/fixture"
	"comanda/internal/handlers"
	"comanda/internal/jobs"
	"comanda/internal/jobs/background"
	"comanda/internal/middleware"
	"comanda/internal/repositories"
	"comanda/internal/services"
	"comanda/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	var (
		pool         *pgxpool.Pool
		tableRepo    repositories.TableRepository
		saleRepo     repositories.SaleRepository
		itemRepo     repositories.SaleItemRepository
		registerRepo repositories.CashRegisterRepository
		cacheSvc     caching.CacheService
	)

	if cfg.DemoMode {
		log.Println("==================================================")
		log.Println("WARNING: DATABASE_URL not configured.")
		log.Println("Running in DEMO MODE with an in-memory dataset.")
		log.Println("All writes are lost on shutdown.")
		log.Println("==================================================")

		dataset := fixture.NewDataset()
		tableRepo = dataset.Tables()
		saleRepo = dataset.Sales()
		itemRepo = dataset.SaleItems()
		registerRepo = dataset.CashRegisters()
		cacheSvc = caching.NewMemoryCacheService()
	} else {
		var err error
		pool, err = database.NewPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		tableRepo = repositories.NewTableRepo(pool)
		saleRepo = repositories.NewSaleRepo(pool)
		itemRepo = repositories.NewSaleItemRepo(pool)
		registerRepo = repositories.NewCashRegisterRepo(pool)
		cacheSvc = caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	// Receipt archive is optional; the workflow treats a nil archiver as "not
	// configured" and finalization proceeds without it.
	var receipts services.ReceiptArchiver
	if !cfg.DemoMode && cfg.MinioEndpoint != "" {
		var err error
		receipts, err = services.NewMinioReceipts(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			log.Printf("WARN: receipt archive unavailable: %v", err)
			receipts = nil
		}
	}

	// Services
	ledger := services.NewCashLedger(registerRepo)
	workflow := services.NewSaleWorkflow(saleRepo, itemRepo, tableRepo, ledger, receipts)
	tableSvc := services.NewTableService(tableRepo)
	panelSvc := services.NewPanelService(workflow, tableSvc, cacheSvc, cfg.DemoMode)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(cfg.JWTSecret, cfg.OperatorPIN)
	saleHandlers := handlers.NewSaleHandlers(panelSvc, workflow)
	tableHandlers := handlers.NewTableHandlers(tableSvc)
	panelHandlers := handlers.NewPanelHandlers(panelSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, cfg.DemoMode)

	// Background jobs
	alertSvc := jobs.NewStaleSaleAlertService(saleRepo)
	scheduler := background.NewJobScheduler(alertSvc)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	v1 := e.Group("/v1")

	// Authentication routes
	v1.POST("/auth/login", authHandlers.Login)

	// Protected routes
	protected := v1.Group("")
	if cfg.DemoMode {
		protected.Use(middleware.DemoOperatorMiddleware(cfg.DemoOperator))
	} else {
		protected.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(middleware.OperatorClaims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(401, "Invalid token")
			},
		}))
		protected.Use(middleware.OperatorContext())
	}

	// Panel routes
	protected.GET("/stores/:store/panel", panelHandlers.GetSnapshot)
	protected.POST("/stores/:store/panel/reload", panelHandlers.Reload)

	// Table routes
	protected.GET("/stores/:store/tables", tableHandlers.ListTables)
	protected.POST("/stores/:store/tables/:id/cleaning", tableHandlers.MarkCleaning)
	protected.POST("/stores/:store/tables/:id/free", tableHandlers.MarkFree)

	// Sale routes
	protected.GET("/stores/:store/sales", saleHandlers.ListOpenSales)
	protected.POST("/stores/:store/sales", saleHandlers.OpenSale)
	protected.GET("/stores/:store/sales/:id", saleHandlers.GetSale)
	protected.POST("/stores/:store/sales/:id/items", saleHandlers.AddItem)
	protected.POST("/stores/:store/sales/:id/finalize", saleHandlers.Finalize)
	protected.POST("/stores/:store/sales/:id/cancel", saleHandlers.Cancel)

	log.Printf("Comanda server v%s starting on port %d (demo mode: %v)", version, cfg.Port, cfg.DemoMode)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
