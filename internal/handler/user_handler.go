package handler

import (
	"errors"
	"net/http"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncUser handles the idempotent create-or-fetch of a user record keyed by
// the external identity provider's id. The dashboard calls this after every
// login; repeated calls return the same row.
func SyncUser(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "User id is required"})
	}

	var user model.User
	err := database.GetDB().First(&user, "user_id = ?", req.UserID).Error
	if err == nil {
		return c.JSON(http.StatusOK, user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Failed to look up user", zap.String("user_id", req.UserID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error handling user creation"})
	}

	user = model.User{UserID: req.UserID}
	if err := database.GetDB().Create(&user).Error; err != nil {
		log.Error("Failed to create user", zap.String("user_id", req.UserID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error handling user creation"})
	}

	log.Info("User created", zap.String("user_id", user.UserID))
	return c.JSON(http.StatusCreated, user)
}
