package model

import "time"

// User mirrors an account at the external identity provider. The id is the
// provider's, never generated here; rows appear through the dashboard sync
// endpoint only.
type User struct {
	UserID    string    `json:"userId" gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}
