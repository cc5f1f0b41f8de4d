package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceOrder is a booking request for one service offering.
type ServiceOrder struct {
	ID                   string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID               string      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ServiceID            string      `gorm:"not null" json:"service_id"`
	ServiceName          string      `gorm:"not null" json:"service_name"`
	ServicePrice         int64       `gorm:"not null" json:"service_price"`
	ContactName          string      `gorm:"not null" json:"contact_name"`
	Phone                string      `gorm:"type:varchar(10);not null" json:"phone"`
	Address              string      `gorm:"not null" json:"address"`
	ScheduledDate        string      `gorm:"type:varchar(10);not null;index" json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime        string      `gorm:"type:varchar(5);not null" json:"scheduled_time"`        // HH:MM
	Notes                *string     `json:"notes"`
	Status               OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedTechnicianID *string     `gorm:"type:varchar(36);index" json:"assigned_technician_id"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the ServiceOrder model
func (ServiceOrder) TableName() string {
	return "service_orders"
}

// BeforeCreate assigns a UUID and the initial status.
func (o *ServiceOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}

// IsAssignedTo reports whether the order is assigned to the given technician.
func (o ServiceOrder) IsAssignedTo(technicianID string) bool {
	return o.AssignedTechnicianID != nil && *o.AssignedTechnicianID == technicianID
}
