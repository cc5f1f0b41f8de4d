package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access tier of a user.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// RoleInfo is the presentation and routing data shared by every panel.
type RoleInfo struct {
	Role          Role   `json:"role"`
	Label         string `json:"label"`
	Icon          string `json:"icon"`
	BadgeColor    string `json:"badge_color"`
	HomePanel     string `json:"home_panel"`
	DeniedMessage string `json:"-"`
}

var roleTable = map[Role]RoleInfo{
	RoleCustomer: {
		Role:          RoleCustomer,
		Label:         "Customer",
		Icon:          "user",
		BadgeColor:    "green",
		HomePanel:     "/dashboard",
		DeniedMessage: "Access denied. Customers only.",
	},
	RoleTechnician: {
		Role:          RoleTechnician,
		Label:         "Technician",
		Icon:          "wrench",
		BadgeColor:    "blue",
		HomePanel:     "/technician",
		DeniedMessage: "Access denied. Technicians only.",
	},
	RoleAdmin: {
		Role:          RoleAdmin,
		Label:         "Admin",
		Icon:          "shield",
		BadgeColor:    "red",
		HomePanel:     "/admin",
		DeniedMessage: "Access denied. Admin only.",
	},
}

// Roles lists every role in display order.
var Roles = []Role{RoleCustomer, RoleTechnician, RoleAdmin}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleTable[r]
	return r, ok
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// Info returns the lookup entry for r. Unknown roles are shown as customers.
func (r Role) Info() RoleInfo {
	if info, ok := roleTable[r]; ok {
		return info
	}
	return roleTable[RoleCustomer]
}

// UserRole stores the single role held by a user.
type UserRole struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the UserRole model
func (UserRole) TableName() string {
	return "user_roles"
}

// BeforeCreate assigns a UUID when the caller did not.
func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
