package main

import (
	"net/http"

	"inventory-service/internal/handler"
	mid "inventory-service/internal/middleware"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/jwtutil"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env is picked up if present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product routes. The archive listing is registered before the
	// parameterized list route on purpose; echo resolves the static
	// segment first either way.
	products := e.Group("/products", mid.AuthMiddleware)
	products.GET("/archive", handler.ListProductsArchive)
	products.GET("/:userId", handler.ListProducts)
	products.POST("", handler.CreateProduct)
	products.PUT("/:productId", handler.UpdateProduct)
	products.DELETE("/:productId", handler.DeleteProduct)
	products.POST("/:productId/stock", handler.AddProductStock)
	products.DELETE("/:productId/stock/:stockId", handler.DeleteProductStock)
	products.POST("/stock/:stockId", handler.UpdateStockAfterSale)
	products.DELETE("/stock/:stockId", handler.ArchiveDepletedStock)

	// Customer routes
	customers := e.Group("/customers", mid.AuthMiddleware)
	customers.GET("", handler.ListCustomers)
	customers.GET("/:customerId", handler.GetCustomer)
	customers.POST("", handler.CreateCustomer)
	customers.PUT("/:customerId", handler.UpdateCustomer)
	customers.DELETE("/:customerId", handler.DeleteCustomer)

	// Sales routes
	sales := e.Group("/sales", mid.AuthMiddleware)
	sales.POST("", handler.CreateSale)
	sales.GET("/:userId", handler.ListSales)

	// Purchase (intake) history
	purchases := e.Group("/purchases", mid.AuthMiddleware)
	purchases.GET("/:userId", handler.ListPurchases)

	// User sync, called by the dashboard after login
	e.POST("/dashboard", handler.SyncUser, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
