package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductArchive is the snapshot header written when a product (or its last
// remaining stock) leaves the live catalog. The unique index on product_id
// guarantees at most one header per product across repeated deletions.
type ProductArchive struct {
	ProductsArchiveID string         `json:"productsArchiveId" gorm:"type:varchar(64);primaryKey"`
	ProductID         string         `json:"productId" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID            string         `json:"userId" gorm:"type:varchar(64);index"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	ImageURL          *string        `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt         time.Time      `json:"createdAt"`
	PSArchive         []StockArchive `json:"psArchive" gorm:"foreignKey:ProductsArchiveID;references:ProductsArchiveID"`
}

func (a *ProductArchive) BeforeCreate(tx *gorm.DB) error {
	if a.ProductsArchiveID == "" {
		a.ProductsArchiveID = newID()
	}
	return nil
}

// StockArchive is the immutable snapshot of one ProductStock row taken at
// deletion time. StockID and ProductID keep the original live ids so sales
// and purchase history stays traceable; the rows they name may no longer
// exist. ProductsArchiveID is only set when the line was archived as part
// of a whole-product deletion.
type StockArchive struct {
	ArchiveID         string    `json:"archiveId" gorm:"type:varchar(64);primaryKey"`
	StockID           string    `json:"stockId" gorm:"type:varchar(64);index;not null"`
	ProductID         string    `json:"productId" gorm:"type:varchar(64);index;not null"`
	ProductsArchiveID *string   `json:"productsArchiveId,omitempty" gorm:"type:varchar(64);index"`
	Size              float64   `json:"size" gorm:"not null"`
	Quantity          int       `json:"quantity" gorm:"not null"`
	Price             float64   `json:"price" gorm:"not null"`
	CreatedAt         time.Time `json:"createdAt"`
	Product           *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ProductID"`
}

func (a *StockArchive) BeforeCreate(tx *gorm.DB) error {
	if a.ArchiveID == "" {
		a.ArchiveID = newID()
	}
	return nil
}
