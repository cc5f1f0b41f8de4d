package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeyhomes/honey-homes-api/catalog"
	"github.com/honeyhomes/honey-homes-api/metrics"
	"github.com/honeyhomes/honey-homes-api/models"
	"gorm.io/gorm"
)

// CartSummary is the cart as shown to its owner. Count and total are always
// derived from Items.
type CartSummary struct {
	Items     []models.CartItem `json:"items"`
	CartCount int               `json:"cart_count"`
	CartTotal int64             `json:"cart_total"`
}

// Summarize computes count and total over the given rows.
func Summarize(items []models.CartItem) *CartSummary {
	summary := &CartSummary{Items: items}
	if summary.Items == nil {
		summary.Items = []models.CartItem{}
	}
	for _, item := range items {
		summary.CartCount += item.Quantity
		summary.CartTotal += item.LineTotal()
	}
	return summary
}

// CartService manages the per-user cart rows.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// List returns the user's cart, newest first.
func (s *CartService) List(ctx context.Context, userID string) (*CartSummary, error) {
	var items []models.CartItem
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return Summarize(items), nil
}

// Add increments the quantity of an existing (user, service) row or inserts
// a new one with quantity 1.
func (s *CartService) Add(ctx context.Context, userID, serviceID string) (*CartSummary, error) {
	svc, ok := catalog.Find(serviceID)
	if !ok {
		return nil, ErrServiceNotFound
	}
	db := s.db.WithContext(ctx)

	var existing models.CartItem
	err := db.Where("user_id = ? AND service_id = ?", userID, serviceID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.increment(db, existing.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := models.CartItem{
			UserID:       userID,
			ServiceID:    svc.ID,
			ServiceName:  svc.Title,
			ServicePrice: svc.Price,
			Quantity:     1,
		}
		if err := db.Create(&item).Error; err != nil {
			if !isUniqueViolation(err) {
				return nil, fmt.Errorf("failed to add cart item: %w", err)
			}
			// Inserted concurrently; fall back to the increment path.
			if err := db.Where("user_id = ? AND service_id = ?", userID, serviceID).First(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to reload cart item: %w", err)
			}
			if err := s.increment(db, existing.ID); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	metrics.CartOperations.WithLabelValues("add").Inc()
	return s.List(ctx, userID)
}

func (s *CartService) increment(db *gorm.DB, itemID string) error {
	if err := db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

// Remove deletes one of the user's rows.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) (*CartSummary, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCartItemNotFound
	}

	metrics.CartOperations.WithLabelValues("remove").Inc()
	return s.List(ctx, userID)
}

// Clear deletes every row of the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	metrics.CartOperations.WithLabelValues("clear").Inc()
	return nil
}
