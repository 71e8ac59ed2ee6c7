// Package archive implements the stock archival workflow: converting live
// stock lines into immutable snapshots and repointing dependent sales and
// purchases, so reporting stays consistent after inventory is removed.
package archive

import (
	"errors"

	"inventory-service/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrStockNotFound is returned when the stock line to archive does not exist
	ErrStockNotFound = errors.New("archive: stock line not found")
	// ErrProductNotFound is returned when the product to archive does not exist
	ErrProductNotFound = errors.New("archive: product not found")
)

// ArchiveStockLine archives and deletes a single live stock line. Every
// sale and purchase referencing the line is repointed to the new snapshot.
// The whole sequence runs in one transaction; on any failure nothing is
// written. A line-level archival carries no ProductArchive header.
func ArchiveStockLine(db *gorm.DB, stockID string) (*model.StockArchive, error) {
	var archived *model.StockArchive
	err := db.Transaction(func(tx *gorm.DB) error {
		var stock model.ProductStock
		if err := tx.First(&stock, "stock_id = ?", stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		var err error
		archived, err = archiveLine(tx, &stock, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

// ArchiveProduct archives and deletes a whole product: its header is
// found-or-created (the unique index on product_id makes repeated deletions
// reuse one header), every live stock line is snapshotted under it with its
// dependents repointed, then the lines and the product row are removed.
func ArchiveProduct(db *gorm.DB, productID string) (*model.ProductArchive, error) {
	var header *model.ProductArchive
	err := db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Preload("Stock").First(&product, "product_id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		header = &model.ProductArchive{}
		if err := tx.Where(model.ProductArchive{ProductID: product.ProductID}).
			Attrs(model.ProductArchive{
				UserID:   product.UserID,
				Name:     product.Name,
				ImageURL: product.ImageURL,
			}).
			FirstOrCreate(header).Error; err != nil {
			return err
		}

		for i := range product.Stock {
			if _, err := archiveLine(tx, &product.Stock[i], &header.ProductsArchiveID); err != nil {
				return err
			}
		}

		return tx.Delete(&model.Product{}, "product_id = ?", productID).Error
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

// archiveLine snapshots one stock line, repoints its dependents and deletes
// the live row. Must run inside a transaction. When headerID is set, sales
// are additionally stamped with the ProductArchive id.
func archiveLine(tx *gorm.DB, stock *model.ProductStock, headerID *string) (*model.StockArchive, error) {
	archived := &model.StockArchive{
		StockID:           stock.StockID,
		ProductID:         stock.ProductID,
		ProductsArchiveID: headerID,
		Size:              stock.Size,
		Quantity:          stock.Quantity,
		Price:             stock.Price,
	}
	if err := tx.Create(archived).Error; err != nil {
		return nil, err
	}

	// Both columns flip in one UPDATE so the exclusive reference holds at
	// every commit point. Hooks are skipped here: gorm would run BeforeSave
	// against the empty model value, not the rows being repointed.
	repoint := tx.Session(&gorm.Session{SkipHooks: true})
	saleCols := map[string]interface{}{
		"stock_id":   nil,
		"archive_id": archived.ArchiveID,
	}
	if headerID != nil {
		saleCols["products_archive_id"] = *headerID
	}
	if err := repoint.Model(&model.Sale{}).Where("stock_id = ?", stock.StockID).Updates(saleCols).Error; err != nil {
		return nil, err
	}

	if err := repoint.Model(&model.Purchase{}).Where("stock_id = ?", stock.StockID).Updates(map[string]interface{}{
		"stock_id":   nil,
		"archive_id": archived.ArchiveID,
	}).Error; err != nil {
		return nil, err
	}

	if err := tx.Delete(&model.ProductStock{}, "stock_id = ?", stock.StockID).Error; err != nil {
		return nil, err
	}

	return archived, nil
}
