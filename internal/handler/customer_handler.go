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

// CustomerRequest defines the structure for customer create/update requests
type CustomerRequest struct {
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	PhoneNumber   string `json:"phoneNumber"`
	Instagram     string `json:"instagram"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
}

// ListCustomers handles retrieving customers, optionally scoped to one owner
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB()
	if userID := c.QueryParam("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var customers []model.Customer
	result := query.Find(&customers)
	if result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving customers"})
	}

	log.Info("Customers retrieved", zap.Int("count", len(customers)))
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles retrieving a single customer by id
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	customerID := c.Param("customerId")

	var customer model.Customer
	if err := database.GetDB().First(&customer, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Customer not found", zap.String("customer_id", customerID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
		}
		log.Error("Failed to load customer", zap.String("customer_id", customerID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving customer"})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name is required"})
	}

	customer := model.Customer{
		UserID:        req.UserID,
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		Instagram:     req.Instagram,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
	}
	if err := database.GetDB().Create(&customer).Error; err != nil {
		log.Error("Failed to create customer", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating customer"})
	}

	log.Info("Customer created",
		zap.String("customer_id", customer.CustomerID),
		zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles updating an existing customer
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	customerID := c.Param("customerId")

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("customer_id", customerID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name is required"})
	}

	var customer model.Customer
	if err := database.GetDB().First(&customer, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Customer not found for update", zap.String("customer_id", customerID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
		}
		log.Error("Failed to load customer", zap.String("customer_id", customerID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating customer"})
	}

	customer.Name = req.Name
	customer.PhoneNumber = req.PhoneNumber
	customer.Instagram = req.Instagram
	customer.StreetAddress = req.StreetAddress
	customer.City = req.City
	customer.State = req.State
	customer.ZipCode = req.ZipCode

	if err := database.GetDB().Save(&customer).Error; err != nil {
		log.Error("Failed to update customer", zap.String("customer_id", customerID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating customer"})
	}

	log.Info("Customer updated", zap.String("customer_id", customerID))
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles deleting a customer. Customers have no archival
// path; sales keep the customer id as a plain value.
func DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	customerID := c.Param("customerId")

	result := database.GetDB().Delete(&model.Customer{}, "customer_id = ?", customerID)
	if result.Error != nil {
		log.Error("Failed to delete customer", zap.String("customer_id", customerID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting customer"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Customer not found for deletion", zap.String("customer_id", customerID))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
	}

	log.Info("Customer deleted", zap.String("customer_id", customerID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted"})
}
