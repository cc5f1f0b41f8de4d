package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/honeyhomes/honey-homes-api/models"
	"gorm.io/gorm"
)

// UserSummary is one row of the admin user list.
type UserSummary struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FullName  *string         `json:"full_name"`
	Role      models.RoleInfo `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// TechnicianListing is one technician offered for assignment.
type TechnicianListing struct {
	UserID   string  `json:"user_id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UserService backs the admin user management endpoints.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListUsers returns every user with their role and profile name.
func (s *UserService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	roles, err := s.rolesByUser(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profilesByID(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		role, ok := roles[u.ID]
		if !ok {
			role = models.RoleCustomer
		}
		summary := UserSummary{
			ID:        u.ID,
			Email:     u.Email,
			Role:      role.Info(),
			CreatedAt: u.CreatedAt,
		}
		if p, ok := profiles[u.ID]; ok {
			summary.FullName = p.FullName
		}
		out = append(out, summary)
	}
	return out, nil
}

// ListTechnicians returns users whose role is technician with their
// profile name and phone.
func (s *UserService) ListTechnicians(ctx context.Context) ([]TechnicianListing, error) {
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role = ?", models.RoleTechnician).
		Order("users.email ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load technicians: %w", err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	profiles, err := s.profilesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TechnicianListing, 0, len(users))
	for _, u := range users {
		listing := TechnicianListing{UserID: u.ID, Email: u.Email}
		if p, ok := profiles[u.ID]; ok {
			listing.FullName = p.FullName
			listing.Phone = p.Phone
		}
		out = append(out, listing)
	}
	return out, nil
}

// SetRole changes the role of another user. Admins cannot change their own.
func (s *UserService) SetRole(ctx context.Context, actorID, targetID, role string) (*UserSummary, error) {
	next, ok := models.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if actorID == targetID {
		return nil, ErrSelfRoleChange
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("id = ?", targetID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var ur models.UserRole
	err = db.Where("user_id = ?", targetID).First(&ur).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.Create(&models.UserRole{UserID: targetID, Role: next}).Error
	case err == nil:
		err = db.Model(&ur).Update("role", next).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	summary := &UserSummary{ID: user.ID, Email: user.Email, Role: next.Info(), CreatedAt: user.CreatedAt}
	var profile models.Profile
	if err := db.Where("id = ?", targetID).Limit(1).Find(&profile).Error; err == nil && profile.ID != "" {
		summary.FullName = profile.FullName
	}
	return summary, nil
}

func (s *UserService) rolesByUser(ctx context.Context) (map[string]models.Role, error) {
	var rows []models.UserRole
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	out := make(map[string]models.Role, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.Role
	}
	return out, nil
}

// profilesByID loads profiles keyed by id. A nil ids slice loads all.
func (s *UserService) profilesByID(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	var rows []models.Profile
	q := s.db.WithContext(ctx)
	if ids != nil {
		if len(ids) == 0 {
			return map[string]models.Profile{}, nil
		}
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	out := make(map[string]models.Profile, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}
