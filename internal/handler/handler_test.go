package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var metricsOnce sync.Once

// setupTest opens a fresh in-memory database, migrates the schema and
// installs it as the active handle
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	metricsOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		prometheus.InitMetrics(cfg)
	})

	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.Set(db)
	return db
}

// newContext builds an echo context around a JSON request
func newContext(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// seedProduct inserts a product with the given stock lines directly
func seedProduct(t *testing.T, db *gorm.DB, userID, name string, lines ...model.ProductStock) model.Product {
	t.Helper()
	product := model.Product{UserID: userID, Name: name, Stock: lines}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// seedSale inserts a sale referencing a live stock line directly
func seedSale(t *testing.T, db *gorm.DB, userID, stockID string, quantity int) model.Sale {
	t.Helper()
	sale := model.Sale{
		UserID:     userID,
		StockID:    &stockID,
		Quantity:   quantity,
		SalesPrice: 100,
		Timestamp:  time.Now().UTC(),
	}
	require.NoError(t, db.Create(&sale).Error)
	return sale
}

// seedPurchase inserts an intake row referencing a live stock line directly
func seedPurchase(t *testing.T, db *gorm.DB, userID, stockID string, quantity int) model.Purchase {
	t.Helper()
	purchase := model.Purchase{
		UserID:        userID,
		StockID:       &stockID,
		Quantity:      quantity,
		PurchasePrice: 80,
		Timestamp:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(&purchase).Error)
	return purchase
}
