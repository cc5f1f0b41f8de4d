package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/honeyhomes/honey-homes-api/catalog"
	"github.com/honeyhomes/honey-homes-api/metrics"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/utils"
	"gorm.io/gorm"
)

// BookingForm holds the contact and scheduling fields of a booking.
type BookingForm struct {
	Name    string
	Phone   string
	Address string
	Date    string // YYYY-MM-DD
	Time    string // HH:MM
	Notes   string
}

// Validate checks the required fields, the phone format and the date/time
// layouts.
func (f BookingForm) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", f.Name},
		{"phone", f.Phone},
		{"address", f.Address},
		{"date", f.Date},
		{"time", f.Time},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "Please fill in all required fields"}
		}
	}
	if !utils.IsValidPhone(f.Phone) {
		return &ValidationError{Field: "phone", Message: "Phone number must be exactly 10 digits"}
	}
	if _, err := time.Parse("2006-01-02", f.Date); err != nil {
		return &ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"}
	}
	if _, err := time.Parse("15:04", f.Time); err != nil {
		return &ValidationError{Field: "time", Message: "Time must be in HH:MM format"}
	}
	return nil
}

func (f BookingForm) order(userID string, svc catalog.Service) models.ServiceOrder {
	order := models.ServiceOrder{
		UserID:        userID,
		ServiceID:     svc.ID,
		ServiceName:   svc.Title,
		ServicePrice:  svc.Price,
		ContactName:   f.Name,
		Phone:         f.Phone,
		Address:       f.Address,
		ScheduledDate: f.Date,
		ScheduledTime: f.Time,
		Status:        models.StatusPending,
	}
	if strings.TrimSpace(f.Notes) != "" {
		notes := f.Notes
		order.Notes = &notes
	}
	return order
}

// BookingService turns booking forms and carts into pending orders.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// Book inserts exactly one pending order for the chosen service.
func (s *BookingService) Book(ctx context.Context, userID, serviceID string, form BookingForm) (*models.ServiceOrder, error) {
	svc, ok := catalog.Find(serviceID)
	if !ok {
		return nil, ErrServiceNotFound
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	order := form.order(userID, svc)
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues("booking").Inc()
	publishEvent(ctx, SubjectOrderCreated, newOrderEvent(&order, userID))
	return &order, nil
}

// Checkout creates one pending order per cart unit and empties the cart,
// all in one transaction.
func (s *BookingService) Checkout(ctx context.Context, userID string, form BookingForm) ([]models.ServiceOrder, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var orders []models.ServiceOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		for _, item := range items {
			svc := catalog.Service{ID: item.ServiceID, Title: item.ServiceName, Price: item.ServicePrice}
			for i := 0; i < item.Quantity; i++ {
				order := form.order(userID, svc)
				if err := tx.Create(&order).Error; err != nil {
					return err
				}
				orders = append(orders, order)
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if errors.Is(err, ErrCartEmpty) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check out cart: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues("checkout").Add(float64(len(orders)))
	metrics.CartOperations.WithLabelValues("checkout").Inc()
	for i := range orders {
		publishEvent(ctx, SubjectOrderCreated, newOrderEvent(&orders[i], userID))
	}
	return orders, nil
}

func newOrderEvent(order *models.ServiceOrder, actorID string) OrderEvent {
	return OrderEvent{
		OrderID:              order.ID,
		UserID:               order.UserID,
		ServiceID:            order.ServiceID,
		Status:               string(order.Status),
		AssignedTechnicianID: order.AssignedTechnicianID,
		ChangedBy:            actorID,
		OccurredAt:           time.Now().UTC(),
	}
}
