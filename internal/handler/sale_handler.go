package handler

import (
	"errors"
	"net/http"
	"time"

	"inventory-service/internal/archive"
	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleRequest defines the structure for sale creation requests
type SaleRequest struct {
	UserID     string    `json:"userId"`
	CustomerID string    `json:"customerId"`
	StockID    string    `json:"stockId"`
	Quantity   int       `json:"quantity"`
	SalesPrice float64   `json:"salesPrice"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreateSale handles recording a sale and applying it to the referenced
// stock line. A sale consuming the whole remaining quantity routes the line
// through the archival path, so the new sale (and the line's purchase
// history) ends up pointing at the archive snapshot; a partial sale
// decrements the line in place. Sale row and stock effect commit together.
func CreateSale(c echo.Context) error {
	log := logger.FromContext(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Quantity must be at least 1"})
	}
	if req.SalesPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Sales price must be greater than zero"})
	}
	if req.StockID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Stock id is required"})
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	var stock model.ProductStock
	if err := database.GetDB().First(&stock, "stock_id = ?", req.StockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Stock item not found for sale", zap.String("stock_id", req.StockID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Stock item not found"})
		}
		log.Error("Failed to load stock item", zap.String("stock_id", req.StockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating sale"})
	}

	if req.Quantity > stock.Quantity {
		log.Warn("Sale exceeds remaining quantity",
			zap.String("stock_id", req.StockID),
			zap.Int("requested", req.Quantity),
			zap.Int("remaining", stock.Quantity))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Insufficient stock"})
	}

	sale := model.Sale{
		UserID:     req.UserID,
		CustomerID: req.CustomerID,
		StockID:    &req.StockID,
		Quantity:   req.Quantity,
		SalesPrice: req.SalesPrice,
		Timestamp:  timestamp,
	}

	depleted := req.Quantity == stock.Quantity

	defer prometheus.TrackDBOperation("create_sale")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		if depleted {
			// Full depletion: archive the line, which repoints this sale
			// (and everything else referencing the stock id) to the snapshot
			_, err := archive.ArchiveStockLine(tx, stock.StockID)
			return err
		}
		return tx.Model(&model.ProductStock{}).
			Where("stock_id = ?", stock.StockID).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", req.Quantity)).Error
	})
	if err != nil {
		log.Error("Failed to create sale", zap.String("stock_id", req.StockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating sale"})
	}

	if depleted {
		prometheus.RemoveStockLevel(stock.ProductID, stock.StockID)
		prometheus.RecordArchiveOperation("stock_line")
	} else {
		prometheus.UpdateStockLevel(stock.ProductID, stock.StockID, float64(stock.Quantity-req.Quantity))
	}
	prometheus.RecordSaleOperation("create")

	// Reload so a repointed sale is returned with its archive reference
	if err := database.GetDB().
		Preload("Customer").
		Preload("ProductStock").
		Preload("PSArchive").
		First(&sale, "sale_id = ?", sale.SaleID).Error; err != nil {
		log.Error("Failed to reload sale", zap.String("sale_id", sale.SaleID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating sale"})
	}

	log.Info("Sale created",
		zap.String("sale_id", sale.SaleID),
		zap.String("stock_id", req.StockID),
		zap.Int("quantity", req.Quantity),
		zap.Bool("depleted", depleted))
	return c.JSON(http.StatusCreated, sale)
}

// ListSales handles retrieving a user's sales with customer, live stock and
// archive relations attached
func ListSales(c echo.Context) error {
	log := logger.FromContext(c)
	userID := c.Param("userId")

	var sales []model.Sale
	result := database.GetDB().
		Preload("Customer").
		Preload("ProductStock.Product").
		Preload("PSArchive.Product").
		Where("user_id = ?", userID).
		Find(&sales)
	if result.Error != nil {
		log.Error("Failed to list sales", zap.String("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving sales"})
	}

	log.Info("Sales retrieved", zap.String("user_id", userID), zap.Int("count", len(sales)))
	return c.JSON(http.StatusOK, sales)
}
