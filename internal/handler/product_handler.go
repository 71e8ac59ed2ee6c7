package handler

import (
	"errors"
	"net/http"
	"strings"
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

// StockItemRequest is one size variant in a product create/update request.
// StockID is only meaningful on update, where known ids are reconciled and
// unseen ids become new lines.
type StockItemRequest struct {
	StockID  string  `json:"stockId,omitempty"`
	Size     float64 `json:"size"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	UserID   string             `json:"userId"`
	Name     string             `json:"name"`
	ImageURL *string            `json:"imageUrl"`
	Stock    []StockItemRequest `json:"stock"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListProducts handles retrieving a user's products with optional name filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	userID := c.Param("userId")

	query := database.GetDB().Where("user_id = ?", userID)

	// Case-insensitive substring filter on the product name. LIKE wildcards
	// in the input are escaped so they match literally.
	search := c.QueryParam("search")
	if search != "" {
		escaped := likeEscaper.Replace(strings.ToLower(search))
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escaped+"%")
		log.Info("Filtering products by name", zap.String("search", search))
	}

	var products []model.Product
	result := query.Preload("Stock").Preload("PSArchive").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving products"})
	}

	log.Info("Products retrieved", zap.String("user_id", userID), zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// CreateProduct handles creating a product with its initial stock lines.
// One purchase (intake) row is synthesized per stock line.
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if req.Name == "" || len(req.Stock) == 0 {
		log.Warn("Product creation rejected", zap.String("name", req.Name), zap.Int("stock_lines", len(req.Stock)))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name and stock array are required"})
	}

	product := model.Product{
		UserID:   req.UserID,
		Name:     req.Name,
		ImageURL: req.ImageURL,
	}
	for _, item := range req.Stock {
		product.Stock = append(product.Stock, model.ProductStock{
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	defer prometheus.TrackDBOperation("create_product")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		for i := range product.Stock {
			if err := createIntakePurchase(tx, req.UserID, &product.Stock[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating product"})
	}

	for i := range product.Stock {
		prometheus.UpdateStockLevel(product.ProductID, product.Stock[i].StockID, float64(product.Stock[i].Quantity))
	}
	prometheus.RecordInventoryOperation("create")

	log.Info("Product created",
		zap.String("product_id", product.ProductID),
		zap.String("name", product.Name),
		zap.Int("stock_lines", len(product.Stock)))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles renaming a product and reconciling its stock lines
// by upsert: known stock ids are updated in place, unseen ids become new
// lines, each new line synthesizing a purchase row.
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("productId")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if req.Name == "" || req.Stock == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name and stock array are required"})
	}

	var product model.Product
	if err := database.GetDB().First(&product, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Product not found for update", zap.String("product_id", productID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		log.Error("Failed to load product", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating product"})
	}

	defer prometheus.TrackDBOperation("update_product")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"name": req.Name}
		if req.ImageURL != nil {
			updates["image_url"] = *req.ImageURL
		}
		if err := tx.Model(&model.Product{}).Where("product_id = ?", productID).Updates(updates).Error; err != nil {
			return err
		}

		for _, item := range req.Stock {
			var existing model.ProductStock
			err := tx.First(&existing, "stock_id = ? AND product_id = ?", item.StockID, productID).Error
			switch {
			case err == nil:
				if err := tx.Model(&model.ProductStock{}).Where("stock_id = ?", existing.StockID).Updates(map[string]interface{}{
					"size":     item.Size,
					"quantity": item.Quantity,
					"price":    item.Price,
				}).Error; err != nil {
					return err
				}
				prometheus.UpdateStockLevel(productID, existing.StockID, float64(item.Quantity))
			case errors.Is(err, gorm.ErrRecordNotFound):
				line := model.ProductStock{
					ProductID: productID,
					Size:      item.Size,
					Quantity:  item.Quantity,
					Price:     item.Price,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
				if err := createIntakePurchase(tx, product.UserID, &line); err != nil {
					return err
				}
				prometheus.UpdateStockLevel(productID, line.StockID, float64(line.Quantity))
			default:
				return err
			}
		}

		return tx.Preload("Stock").First(&product, "product_id = ?", productID).Error
	})
	if err != nil {
		log.Error("Failed to update product", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating product"})
	}

	prometheus.RecordInventoryOperation("update")
	log.Info("Product updated", zap.String("product_id", productID), zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// AddProductStock handles adding stock lines to an existing product, each
// with a synthesized purchase row, in one transaction
func AddProductStock(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("productId")

	var req struct {
		Stock []StockItemRequest `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if len(req.Stock) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Stock array is required"})
	}

	var product model.Product
	if err := database.GetDB().First(&product, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Product not found for stock add", zap.String("product_id", productID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		log.Error("Failed to load product", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to add stock"})
	}

	lines := make([]model.ProductStock, 0, len(req.Stock))
	defer prometheus.TrackDBOperation("add_stock")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Stock {
			line := model.ProductStock{
				ProductID: productID,
				Size:      item.Size,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			if err := createIntakePurchase(tx, product.UserID, &line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to add stock", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to add stock"})
	}

	for i := range lines {
		prometheus.UpdateStockLevel(productID, lines[i].StockID, float64(lines[i].Quantity))
	}
	prometheus.RecordInventoryOperation("add_stock")

	log.Info("Stock added", zap.String("product_id", productID), zap.Int("lines", len(lines)))
	return c.JSON(http.StatusOK, lines)
}

// DeleteProduct handles the archival delete of a whole product: every stock
// line is snapshotted under a single archive header, dependents are
// repointed, then the live rows are removed
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("productId")

	// Live line ids, for gauge cleanup after the archival commits
	var stockIDs []string
	if err := database.GetDB().Model(&model.ProductStock{}).Where("product_id = ?", productID).Pluck("stock_id", &stockIDs).Error; err != nil {
		log.Error("Failed to collect stock ids", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting product"})
	}

	defer prometheus.TrackDBOperation("delete_product")(time.Now())
	header, err := archive.ArchiveProduct(database.GetDB(), productID)
	if err != nil {
		if errors.Is(err, archive.ErrProductNotFound) {
			log.Warn("Product not found for deletion", zap.String("product_id", productID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		log.Error("Failed to delete product", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting product"})
	}

	for _, id := range stockIDs {
		prometheus.RemoveStockLevel(productID, id)
	}
	prometheus.RecordArchiveOperation("product")

	log.Info("Product archived and deleted",
		zap.String("product_id", productID),
		zap.String("products_archive_id", header.ProductsArchiveID),
		zap.Int("archived_lines", len(stockIDs)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

// createIntakePurchase synthesizes the cost-basis purchase row for a newly
// created stock line
func createIntakePurchase(tx *gorm.DB, userID string, line *model.ProductStock) error {
	purchase := model.Purchase{
		UserID:        userID,
		StockID:       &line.StockID,
		Quantity:      line.Quantity,
		PurchasePrice: line.Price,
		Timestamp:     time.Now().UTC(),
	}
	return tx.Create(&purchase).Error
}
