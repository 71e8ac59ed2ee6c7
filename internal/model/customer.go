package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a buyer in a user's address book
type Customer struct {
	CustomerID    string    `json:"customerId" gorm:"type:varchar(64);primaryKey"`
	UserID        string    `json:"userId" gorm:"type:varchar(64);index"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	PhoneNumber   string    `json:"phoneNumber" gorm:"type:varchar(32)"`
	Instagram     string    `json:"instagram" gorm:"type:varchar(255)"`
	StreetAddress string    `json:"streetAddress" gorm:"type:varchar(255)"`
	City          string    `json:"city" gorm:"type:varchar(128)"`
	State         string    `json:"state" gorm:"type:varchar(64)"`
	ZipCode       string    `json:"zipCode" gorm:"type:varchar(16)"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.CustomerID == "" {
		c.CustomerID = newID()
	}
	return nil
}
