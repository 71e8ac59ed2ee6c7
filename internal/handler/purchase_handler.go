package handler

import (
	"net/http"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListPurchases handles retrieving a user's intake history with live stock
// and archive relations attached
func ListPurchases(c echo.Context) error {
	log := logger.FromContext(c)
	userID := c.Param("userId")

	var purchases []model.Purchase
	result := database.GetDB().
		Preload("ProductStock.Product").
		Preload("PSArchive.Product").
		Where("user_id = ?", userID).
		Find(&purchases)
	if result.Error != nil {
		log.Error("Failed to list purchases", zap.String("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving purchases"})
	}

	log.Info("Purchases retrieved", zap.String("user_id", userID), zap.Int("count", len(purchases)))
	return c.JSON(http.StatusOK, purchases)
}
