package model

import (
	"time"

	"gorm.io/gorm"
)

// Purchase records an inventory intake (cost-basis) event. One row is
// synthesized for every stock line created, whether at product creation or
// when stock is added later.
type Purchase struct {
	PurchaseID    string        `json:"purchaseId" gorm:"type:varchar(64);primaryKey"`
	UserID        string        `json:"userId" gorm:"type:varchar(64);index;not null"`
	StockID       *string       `json:"stockId" gorm:"type:varchar(64);index"`
	ArchiveID     *string       `json:"archiveId" gorm:"type:varchar(64);index"`
	Quantity      int           `json:"quantity" gorm:"not null"`
	PurchasePrice float64       `json:"purchasePrice" gorm:"not null"`
	Timestamp     time.Time     `json:"timestamp" gorm:"not null"`
	ProductStock  *ProductStock `json:"productStock,omitempty" gorm:"foreignKey:StockID;references:StockID"`
	PSArchive     *StockArchive `json:"psArchive,omitempty" gorm:"foreignKey:ArchiveID;references:ArchiveID"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.PurchaseID == "" {
		p.PurchaseID = newID()
	}
	return nil
}

// BeforeSave enforces the exclusive stock reference on single-row writes,
// same as Sale. Batch repoints in the archival workflow skip hooks.
func (p *Purchase) BeforeSave(tx *gorm.DB) error {
	if (p.StockID == nil) == (p.ArchiveID == nil) {
		return ErrStockRefConflict
	}
	return nil
}
