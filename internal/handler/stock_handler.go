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

// UpdateStockAfterSale handles decrementing a stock line after a partial
// sale. The caller decides the policy: a sale that consumes the whole
// remaining quantity must go through ArchiveDepletedStock instead, so the
// line's history survives as an archive snapshot.
func UpdateStockAfterSale(c echo.Context) error {
	log := logger.FromContext(c)
	stockID := c.Param("stockId")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("stock_id", stockID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Quantity must be at least 1"})
	}

	var stock model.ProductStock
	if err := database.GetDB().First(&stock, "stock_id = ?", stockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Stock item not found", zap.String("stock_id", stockID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Stock item not found"})
		}
		log.Error("Failed to load stock item", zap.String("stock_id", stockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating stock"})
	}

	if req.Quantity > stock.Quantity {
		log.Warn("Decrement exceeds remaining quantity",
			zap.String("stock_id", stockID),
			zap.Int("requested", req.Quantity),
			zap.Int("remaining", stock.Quantity))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Insufficient stock"})
	}

	defer prometheus.TrackDBOperation("decrement_stock")(time.Now())
	result := database.GetDB().Model(&model.ProductStock{}).
		Where("stock_id = ?", stockID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", req.Quantity))
	if result.Error != nil {
		log.Error("Failed to decrement stock", zap.String("stock_id", stockID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating stock"})
	}

	if err := database.GetDB().First(&stock, "stock_id = ?", stockID).Error; err != nil {
		log.Error("Failed to reload stock item", zap.String("stock_id", stockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating stock"})
	}

	prometheus.UpdateStockLevel(stock.ProductID, stock.StockID, float64(stock.Quantity))
	prometheus.RecordInventoryOperation("decrement")

	log.Info("Stock decremented",
		zap.String("stock_id", stockID),
		zap.Int("sold", req.Quantity),
		zap.Int("remaining", stock.Quantity))
	return c.JSON(http.StatusOK, stock)
}

// ArchiveDepletedStock handles archiving a fully depleted stock line: the
// snapshot is created, dependent sales and purchases are repointed to it
// and the live row is removed, all in one transaction
func ArchiveDepletedStock(c echo.Context) error {
	log := logger.FromContext(c)
	stockID := c.Param("stockId")

	defer prometheus.TrackDBOperation("archive_stock")(time.Now())
	archived, err := archive.ArchiveStockLine(database.GetDB(), stockID)
	if err != nil {
		if errors.Is(err, archive.ErrStockNotFound) {
			log.Warn("Stock item not found for archival", zap.String("stock_id", stockID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Stock item not found"})
		}
		log.Error("Failed to archive stock item", zap.String("stock_id", stockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting stock"})
	}

	prometheus.RemoveStockLevel(archived.ProductID, archived.StockID)
	prometheus.RecordArchiveOperation("stock_line")

	log.Info("Stock item archived and deleted",
		zap.String("stock_id", stockID),
		zap.String("archive_id", archived.ArchiveID))
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Stock item archived and deleted successfully",
		"archivedStock": archived,
	})
}

// DeleteProductStock handles the line-level archival delete under an
// explicit product, verifying the line belongs to it first
func DeleteProductStock(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("productId")
	stockID := c.Param("stockId")

	var stock model.ProductStock
	if err := database.GetDB().First(&stock, "stock_id = ? AND product_id = ?", stockID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Stock item not found under product",
				zap.String("product_id", productID),
				zap.String("stock_id", stockID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Stock item not found"})
		}
		log.Error("Failed to load stock item", zap.String("stock_id", stockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting stock"})
	}

	defer prometheus.TrackDBOperation("archive_stock")(time.Now())
	archived, err := archive.ArchiveStockLine(database.GetDB(), stockID)
	if err != nil {
		if errors.Is(err, archive.ErrStockNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Stock item not found"})
		}
		log.Error("Failed to archive stock item", zap.String("stock_id", stockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting stock"})
	}

	prometheus.RemoveStockLevel(productID, stockID)
	prometheus.RecordArchiveOperation("stock_line")

	log.Info("Stock item archived and deleted",
		zap.String("product_id", productID),
		zap.String("stock_id", stockID),
		zap.String("archive_id", archived.ArchiveID))
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Stock item archived and deleted successfully",
		"archivedStock": archived,
	})
}
