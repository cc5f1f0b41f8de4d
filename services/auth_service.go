package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session is the resolved identity of the caller for one request.
type Session struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// SignUpInput carries the validated sign-up form.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	Token     string          `json:"access_token"`
	TokenType string          `json:"token_type"`
	ExpiresAt int64           `json:"expires_at"`
	User      *models.User    `json:"user"`
	Role      models.RoleInfo `json:"role"`
}

// AuthService owns credentials and the initial role assignment.
type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	tokens   *TokenIssuer
	hashCost int
}

// NewAuthService creates an AuthService using bcrypt.DefaultCost.
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		tokens:   NewTokenIssuer(cfg),
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the user, its role row and its profile in one transaction.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleCustomer
	if s.cfg.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	user := models.User{Email: email, PasswordHash: string(hash)}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
			return err
		}
		profile := models.Profile{ID: user.ID}
		if name := strings.TrimSpace(in.FullName); name != "" {
			profile.FullName = &name
		}
		if phone := strings.TrimSpace(in.Phone); phone != "" {
			profile.Phone = &phone
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(&user, role)
}

// SignIn checks the password and issues a new token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := RoleOf(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issue(&user, role)
}

// LoadSession resolves the current role of an authenticated user.
func (s *AuthService) LoadSession(ctx context.Context, userID string) (*Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	role, err := RoleOf(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: user.ID, Email: user.Email, Role: role}, nil
}

func (s *AuthService) issue(user *models.User, role models.Role) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt.Unix(),
		User:      user,
		Role:      role.Info(),
	}, nil
}

// RoleOf reads the role row of a user. Users without one are customers.
func RoleOf(ctx context.Context, db *gorm.DB, userID string) (models.Role, error) {
	var ur models.UserRole
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleCustomer, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load role: %w", err)
	}
	return ur.Role, nil
}
