package handler

import (
	"net/http"
	"testing"
	"time"

	"inventory-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateSalePartialDecrementsStock(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID

	c, rec := newContext(t, http.MethodPost, "/sales", SaleRequest{
		UserID:     "user-1",
		StockID:    stockID,
		Quantity:   2,
		SalesPrice: 150,
		Timestamp:  time.Now().UTC(),
	})
	require.NoError(t, CreateSale(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale model.Sale
	decodeBody(t, rec, &sale)
	require.NotNil(t, sale.StockID)
	assert.Equal(t, stockID, *sale.StockID)
	assert.Nil(t, sale.ArchiveID)

	// Line stays live with the remainder
	var stock model.ProductStock
	require.NoError(t, db.First(&stock, "stock_id = ?", stockID).Error)
	assert.Equal(t, 3, stock.Quantity)

	var archiveCount int64
	require.NoError(t, db.Model(&model.StockArchive{}).Count(&archiveCount).Error)
	assert.Zero(t, archiveCount)
}

func TestCreateSaleFullDepletionArchivesLine(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID
	purchase := seedPurchase(t, db, "user-1", stockID, 5)

	c, rec := newContext(t, http.MethodPost, "/sales", SaleRequest{
		UserID:     "user-1",
		StockID:    stockID,
		Quantity:   5,
		SalesPrice: 150,
	})
	require.NoError(t, CreateSale(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The returned sale already points at the snapshot
	var sale model.Sale
	decodeBody(t, rec, &sale)
	assert.Nil(t, sale.StockID)
	require.NotNil(t, sale.ArchiveID)
	require.NotNil(t, sale.PSArchive)
	assert.Equal(t, 5, sale.PSArchive.Quantity)
	assert.Equal(t, 10.0, sale.PSArchive.Size)
	assert.Equal(t, 100.0, sale.PSArchive.Price)

	// Live line gone
	require.ErrorIs(t, db.First(&model.ProductStock{}, "stock_id = ?", stockID).Error, gorm.ErrRecordNotFound)

	// The intake purchase followed the line into the archive
	var gotPurchase model.Purchase
	require.NoError(t, db.First(&gotPurchase, "purchase_id = ?", purchase.PurchaseID).Error)
	assert.Nil(t, gotPurchase.StockID)
	require.NotNil(t, gotPurchase.ArchiveID)
	assert.Equal(t, *sale.ArchiveID, *gotPurchase.ArchiveID)
}

func TestCreateSaleValidation(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID

	cases := []struct {
		name string
		req  SaleRequest
		code int
	}{
		{"zero quantity", SaleRequest{UserID: "user-1", StockID: stockID, Quantity: 0, SalesPrice: 150}, http.StatusBadRequest},
		{"zero price", SaleRequest{UserID: "user-1", StockID: stockID, Quantity: 1, SalesPrice: 0}, http.StatusBadRequest},
		{"missing stock id", SaleRequest{UserID: "user-1", Quantity: 1, SalesPrice: 150}, http.StatusBadRequest},
		{"unknown stock id", SaleRequest{UserID: "user-1", StockID: "missing", Quantity: 1, SalesPrice: 150}, http.StatusNotFound},
		{"oversell", SaleRequest{UserID: "user-1", StockID: stockID, Quantity: 6, SalesPrice: 150}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodPost, "/sales", tc.req)
			require.NoError(t, CreateSale(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}

	// No sale was recorded and the stock is untouched
	var saleCount int64
	require.NoError(t, db.Model(&model.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)

	var stock model.ProductStock
	require.NoError(t, db.First(&stock, "stock_id = ?", stockID).Error)
	assert.Equal(t, 5, stock.Quantity)
}

func TestListSales(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Air Max 1",
		model.ProductStock{Size: 10, Quantity: 5, Price: 100})
	stockID := product.Stock[0].StockID

	customer := model.Customer{UserID: "user-1", Name: "Jane"}
	require.NoError(t, db.Create(&customer).Error)

	sale := model.Sale{
		UserID:     "user-1",
		CustomerID: customer.CustomerID,
		StockID:    &stockID,
		Quantity:   1,
		SalesPrice: 150,
		Timestamp:  time.Now().UTC(),
	}
	require.NoError(t, db.Create(&sale).Error)
	seedSale(t, db, "user-2", stockID, 1)

	c, rec := newContext(t, http.MethodGet, "/sales/user-1", nil)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")
	require.NoError(t, ListSales(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var sales []model.Sale
	decodeBody(t, rec, &sales)
	require.Len(t, sales, 1)
	require.NotNil(t, sales[0].Customer)
	assert.Equal(t, "Jane", sales[0].Customer.Name)
	require.NotNil(t, sales[0].ProductStock)
	require.NotNil(t, sales[0].ProductStock.Product)
	assert.Equal(t, "Air Max 1", sales[0].ProductStock.Product.Name)
}
