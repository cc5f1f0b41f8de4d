package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is a service selected by a user but not yet booked.
// ServiceName and ServicePrice are snapshots taken from the catalog.
type CartItem struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_service" json:"user_id"`
	ServiceID    string    `gorm:"not null;uniqueIndex:idx_cart_user_service" json:"service_id"`
	ServiceName  string    `gorm:"not null" json:"service_name"`
	ServicePrice int64     `gorm:"not null" json:"service_price"`
	Quantity     int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns a UUID when the caller did not.
func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// LineTotal is price times quantity.
func (c CartItem) LineTotal() int64 {
	return c.ServicePrice * int64(c.Quantity)
}
