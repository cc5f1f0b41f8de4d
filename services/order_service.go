package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeyhomes/honey-homes-api/metrics"
	"github.com/honeyhomes/honey-homes-api/models"
	"gorm.io/gorm"
)

// TechnicianSummary is the header of the technician panel.
type TechnicianSummary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Today     int `json:"today"`
}

// SummarizeAssigned counts active, completed and today's jobs. today is a
// YYYY-MM-DD date.
func SummarizeAssigned(orders []models.ServiceOrder, today string) TechnicianSummary {
	var summary TechnicianSummary
	for _, o := range orders {
		switch o.Status {
		case models.StatusConfirmed, models.StatusInProgress:
			summary.Active++
		case models.StatusCompleted:
			summary.Completed++
		}
		if o.ScheduledDate == today {
			summary.Today++
		}
	}
	return summary
}

// OrderStats is the admin analytics block.
type OrderStats struct {
	TotalOrders    int64            `json:"total_orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalUsers     int64            `json:"total_users"`
	UsersByRole    map[string]int64 `json:"users_by_role"`
	Revenue        int64            `json:"revenue"`
}

// OrderFilter narrows the admin order list.
type OrderFilter struct {
	Status models.OrderStatus
	Offset int
	Limit  int
}

// OrderService reads orders and applies lifecycle mutations.
type OrderService struct {
	db                *gorm.DB
	enforceTransition bool
}

func NewOrderService(db *gorm.DB, enforceTransitions bool) *OrderService {
	return &OrderService{db: db, enforceTransition: enforceTransitions}
}

// ListForCustomer returns one page of the user's own orders, newest first.
func (s *OrderService) ListForCustomer(ctx context.Context, userID string, offset, limit int) ([]models.ServiceOrder, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ServiceOrder{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []models.ServiceOrder{}
	q := query.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, total, nil
}

// GetForCustomer loads one of the user's own orders.
func (s *OrderService) GetForCustomer(ctx context.Context, userID, orderID string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// ListAssigned returns the orders assigned to a technician by scheduled date.
func (s *OrderService) ListAssigned(ctx context.Context, technicianID string) ([]models.ServiceOrder, error) {
	orders := []models.ServiceOrder{}
	if err := s.db.WithContext(ctx).
		Where("assigned_technician_id = ?", technicianID).
		Order("scheduled_date ASC").
		Order("scheduled_time ASC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load assigned orders: %w", err)
	}
	return orders, nil
}

// ListAll returns one page of every order, newest first.
func (s *OrderService) ListAll(ctx context.Context, filter OrderFilter) ([]models.ServiceOrder, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ServiceOrder{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []models.ServiceOrder{}
	q := query.Order("created_at DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatusAsTechnician sets the status of an order assigned to the
// technician. Only the technician subset of statuses is accepted.
func (s *OrderService) UpdateStatusAsTechnician(ctx context.Context, technicianID, orderID, status string) (*models.ServiceOrder, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	if !next.TechnicianSettable() {
		return nil, ErrStatusNotAllowed
	}

	var order models.ServiceOrder
	err := s.db.WithContext(ctx).
		Where("id = ? AND assigned_technician_id = ?", orderID, technicianID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	return s.setStatus(ctx, &order, next, technicianID, models.RoleTechnician)
}

// UpdateStatusAsAdmin sets any valid status on any order.
func (s *OrderService) UpdateStatusAsAdmin(ctx context.Context, adminID, orderID, status string) (*models.ServiceOrder, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.setStatus(ctx, order, next, adminID, models.RoleAdmin)
}

func (s *OrderService) setStatus(ctx context.Context, order *models.ServiceOrder, next models.OrderStatus, actorID string, role models.Role) (*models.ServiceOrder, error) {
	if s.enforceTransition && !models.LifecycleAllows(order.Status, next) {
		return nil, ErrIllegalTransition
	}

	if err := s.db.WithContext(ctx).Model(order).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = next

	metrics.OrderStatusChanges.WithLabelValues(string(role), string(next)).Inc()
	publishEvent(ctx, SubjectOrderStatusChanged, newOrderEvent(order, actorID))
	return order, nil
}

// AssignTechnician sets the technician and forces status confirmed in a
// single update, whatever the previous status was.
func (s *OrderService) AssignTechnician(ctx context.Context, adminID, orderID, technicianID string) (*models.ServiceOrder, error) {
	role, err := s.roleOfExistingUser(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleTechnician {
		return nil, ErrNotATechnician
	}

	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(order).Updates(map[string]interface{}{
		"assigned_technician_id": technicianID,
		"status":                 models.StatusConfirmed,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to assign technician: %w", err)
	}
	order.AssignedTechnicianID = &technicianID
	order.Status = models.StatusConfirmed

	metrics.OrderStatusChanges.WithLabelValues(string(models.RoleAdmin), string(models.StatusConfirmed)).Inc()
	publishEvent(ctx, SubjectOrderAssigned, newOrderEvent(order, adminID))
	return order, nil
}

func (s *OrderService) roleOfExistingUser(ctx context.Context, userID string) (models.Role, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if count == 0 {
		return "", ErrNotATechnician
	}
	return RoleOf(ctx, s.db, userID)
}

func (s *OrderService) find(ctx context.Context, orderID string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

type groupCount struct {
	Name  string
	Count int64
}

// Stats aggregates order and user counts in SQL.
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	db := s.db.WithContext(ctx)
	stats := &OrderStats{
		OrdersByStatus: make(map[string]int64, len(models.OrderStatuses)),
		UsersByRole:    make(map[string]int64, len(models.Roles)),
	}
	for _, st := range models.OrderStatuses {
		stats.OrdersByStatus[string(st)] = 0
	}
	for _, r := range models.Roles {
		stats.UsersByRole[string(r)] = 0
	}

	var byStatus []groupCount
	if err := db.Model(&models.ServiceOrder{}).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	for _, row := range byStatus {
		stats.OrdersByStatus[row.Name] = row.Count
		stats.TotalOrders += row.Count
	}

	if err := db.Model(&models.ServiceOrder{}).
		Select("COALESCE(SUM(service_price), 0)").
		Where("status = ?", models.StatusCompleted).
		Scan(&stats.Revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var byRole []groupCount
	if err := db.Model(&models.UserRole{}).
		Select("user_roles.role AS name, COUNT(*) AS count").
		Joins("JOIN users ON users.id = user_roles.user_id AND users.deleted_at IS NULL").
		Group("user_roles.role").
		Scan(&byRole).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate roles: %w", err)
	}
	var withRole int64
	for _, row := range byRole {
		stats.UsersByRole[row.Name] = row.Count
		withRole += row.Count
	}
	// Users without a role row are customers.
	stats.UsersByRole[string(models.RoleCustomer)] += stats.TotalUsers - withRole

	return stats, nil
}
