package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrStockRefConflict is returned when a sale or purchase row would violate
// the exclusive stock reference: exactly one of stockId and archiveId must
// be set.
var ErrStockRefConflict = errors.New("model: exactly one of stockId and archiveId must be set")

// Sale records one sale transaction. Sales are immutable after creation;
// the only later mutation is the archival workflow flipping the stock
// reference from live to archived.
type Sale struct {
	SaleID            string        `json:"saleId" gorm:"type:varchar(64);primaryKey"`
	UserID            string        `json:"userId" gorm:"type:varchar(64);index;not null"`
	CustomerID        string        `json:"customerId" gorm:"type:varchar(64);index"`
	StockID           *string       `json:"stockId" gorm:"type:varchar(64);index"`
	ArchiveID         *string       `json:"archiveId" gorm:"type:varchar(64);index"`
	ProductsArchiveID *string       `json:"productsArchiveId,omitempty" gorm:"type:varchar(64);index"`
	Quantity          int           `json:"quantity" gorm:"not null"`
	SalesPrice        float64       `json:"salesPrice" gorm:"not null"`
	Timestamp         time.Time     `json:"timestamp" gorm:"not null"`
	Customer          *Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID;references:CustomerID"`
	ProductStock      *ProductStock `json:"productStock,omitempty" gorm:"foreignKey:StockID;references:StockID"`
	PSArchive         *StockArchive `json:"psArchive,omitempty" gorm:"foreignKey:ArchiveID;references:ArchiveID"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.SaleID == "" {
		s.SaleID = newID()
	}
	return nil
}

// BeforeSave guards single-row writes. The archival workflow's batch
// repoints run with hooks skipped; they flip both columns in one UPDATE.
func (s *Sale) BeforeSave(tx *gorm.DB) error {
	if (s.StockID == nil) == (s.ArchiveID == nil) {
		return ErrStockRefConflict
	}
	return nil
}
