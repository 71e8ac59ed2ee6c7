package handler

import (
	"net/http"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListProductsArchive handles retrieving archived product snapshots with
// their archived stock lines, optionally scoped to one owner
func ListProductsArchive(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB()
	if userID := c.QueryParam("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var archives []model.ProductArchive
	result := query.Preload("PSArchive").Find(&archives)
	if result.Error != nil {
		log.Error("Failed to list products archive", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving products archive"})
	}

	log.Info("Products archive retrieved", zap.Int("count", len(archives)))
	return c.JSON(http.StatusOK, archives)
}
