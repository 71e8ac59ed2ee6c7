package handler

import (
	"net/http"
	"testing"

	"inventory-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUpdateStockAfterSaleDecrements(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID

	c, rec := newContext(t, http.MethodPost, "/products/stock/"+stockID, map[string]int{"quantity": 2})
	c.SetParamNames("stockId")
	c.SetParamValues(stockID)
	require.NoError(t, UpdateStockAfterSale(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.ProductStock
	decodeBody(t, rec, &updated)
	assert.Equal(t, 3, updated.Quantity)

	// Still live, no archive row created
	var archiveCount int64
	require.NoError(t, db.Model(&model.StockArchive{}).Count(&archiveCount).Error)
	assert.Zero(t, archiveCount)
}

func TestUpdateStockAfterSaleValidation(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID

	// Zero quantity
	c, rec := newContext(t, http.MethodPost, "/products/stock/"+stockID, map[string]int{"quantity": 0})
	c.SetParamNames("stockId")
	c.SetParamValues(stockID)
	require.NoError(t, UpdateStockAfterSale(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// More than remaining
	c, rec = newContext(t, http.MethodPost, "/products/stock/"+stockID, map[string]int{"quantity": 6})
	c.SetParamNames("stockId")
	c.SetParamValues(stockID)
	require.NoError(t, UpdateStockAfterSale(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown stock id
	c, rec = newContext(t, http.MethodPost, "/products/stock/missing", map[string]int{"quantity": 1})
	c.SetParamNames("stockId")
	c.SetParamValues("missing")
	require.NoError(t, UpdateStockAfterSale(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Quantity untouched throughout
	var stock model.ProductStock
	require.NoError(t, db.First(&stock, "stock_id = ?", stockID).Error)
	assert.Equal(t, 5, stock.Quantity)
}

func TestArchiveDepletedStock(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID
	sale := seedSale(t, db, "user-1", stockID, 5)
	purchase := seedPurchase(t, db, "user-1", stockID, 5)

	c, rec := newContext(t, http.MethodDelete, "/products/stock/"+stockID, nil)
	c.SetParamNames("stockId")
	c.SetParamValues(stockID)
	require.NoError(t, ArchiveDepletedStock(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Live row gone, snapshot carries the final quantities
	require.ErrorIs(t, db.First(&model.ProductStock{}, "stock_id = ?", stockID).Error, gorm.ErrRecordNotFound)

	var archived model.StockArchive
	require.NoError(t, db.First(&archived, "stock_id = ?", stockID).Error)
	assert.Equal(t, 10.0, archived.Size)
	assert.Equal(t, 5, archived.Quantity)
	assert.Equal(t, 100.0, archived.Price)
	assert.Nil(t, archived.ProductsArchiveID)

	// Dependents repointed
	var gotSale model.Sale
	require.NoError(t, db.First(&gotSale, "sale_id = ?", sale.SaleID).Error)
	assert.Nil(t, gotSale.StockID)
	require.NotNil(t, gotSale.ArchiveID)
	assert.Equal(t, archived.ArchiveID, *gotSale.ArchiveID)

	var gotPurchase model.Purchase
	require.NoError(t, db.First(&gotPurchase, "purchase_id = ?", purchase.PurchaseID).Error)
	assert.Nil(t, gotPurchase.StockID)
	require.NotNil(t, gotPurchase.ArchiveID)
	assert.Equal(t, archived.ArchiveID, *gotPurchase.ArchiveID)
}

func TestArchiveDepletedStockNotFound(t *testing.T) {
	db := setupTest(t)

	c, rec := newContext(t, http.MethodDelete, "/products/stock/missing", nil)
	c.SetParamNames("stockId")
	c.SetParamValues("missing")
	require.NoError(t, ArchiveDepletedStock(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.StockArchive{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteProductStockChecksOwnership(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID

	// Line does not belong to that product
	c, rec := newContext(t, http.MethodDelete, "/products/other/stock/"+stockID, nil)
	c.SetParamNames("productId", "stockId")
	c.SetParamValues("other", stockID)
	require.NoError(t, DeleteProductStock(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Correct product archives the line
	c, rec = newContext(t, http.MethodDelete, "/products/"+product.ProductID+"/stock/"+stockID, nil)
	c.SetParamNames("productId", "stockId")
	c.SetParamValues(product.ProductID, stockID)
	require.NoError(t, DeleteProductStock(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.ErrorIs(t, db.First(&model.ProductStock{}, "stock_id = ?", stockID).Error, gorm.ErrRecordNotFound)
}
