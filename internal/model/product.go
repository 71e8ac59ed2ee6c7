package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents one sneaker model in the live catalog. Size variants
// live in ProductStock; once archived, a product is mirrored by a single
// ProductArchive row instead.
type Product struct {
	ProductID string         `json:"productId" gorm:"type:varchar(64);primaryKey"`
	UserID    string         `json:"userId" gorm:"type:varchar(64);index"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	ImageURL  *string        `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Stock     []ProductStock `json:"stock" gorm:"foreignKey:ProductID;references:ProductID"`
	PSArchive []StockArchive `json:"psArchive" gorm:"foreignKey:ProductID;references:ProductID"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == "" {
		p.ProductID = newID()
	}
	return nil
}

// ProductStock is one sellable size variant of a product
type ProductStock struct {
	StockID   string    `json:"stockId" gorm:"type:varchar(64);primaryKey"`
	ProductID string    `json:"productId" gorm:"type:varchar(64);index;not null"`
	Size      float64   `json:"size" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	Price     float64   `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ProductID"`
}

func (s *ProductStock) BeforeCreate(tx *gorm.DB) error {
	if s.StockID == "" {
		s.StockID = newID()
	}
	return nil
}
