package models

import "time"

// Profile holds the optional display fields of a user. Its ID is the user ID.
type Profile struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `gorm:"type:varchar(10)" json:"phone"`
	Address   *string   `json:"address"`
	City      *string   `json:"city"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
