package handler

import (
	"net/http"
	"testing"

	"inventory-service/internal/archive"
	"inventory-service/internal/model"
	"inventory-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPurchases(t *testing.T) {
	db := setupTest(t)
	product := seedProduct(t, db, "user-1", "Dunk Low",
		model.ProductStock{Size: 9, Quantity: 3, Price: 120},
		model.ProductStock{Size: 10, Quantity: 2, Price: 120})
	seedPurchase(t, db, "user-1", product.Stock[0].StockID, 3)
	seedPurchase(t, db, "user-1", product.Stock[1].StockID, 2)
	seedPurchase(t, db, "user-2", product.Stock[0].StockID, 1)

	// One line archived: its purchase must resolve through the snapshot
	_, err := archive.ArchiveStockLine(database.GetDB(), product.Stock[1].StockID)
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodGet, "/purchases/user-1", nil)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")
	require.NoError(t, ListPurchases(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var purchases []model.Purchase
	decodeBody(t, rec, &purchases)
	require.Len(t, purchases, 2)

	for _, p := range purchases {
		if p.StockID != nil {
			require.NotNil(t, p.ProductStock)
			require.NotNil(t, p.ProductStock.Product)
			assert.Equal(t, "Dunk Low", p.ProductStock.Product.Name)
		} else {
			require.NotNil(t, p.ArchiveID)
			require.NotNil(t, p.PSArchive)
			assert.Equal(t, 10.0, p.PSArchive.Size)
		}
	}
}
