package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/utils"
	"gorm.io/gorm"
)

// ProfileUpdate lists the fields to change. Nil leaves a field alone, an
// empty string clears it.
type ProfileUpdate struct {
	FullName  *string
	Phone     *string
	Address   *string
	City      *string
	AvatarURL *string
}

// ProfileService reads and writes the caller's own profile row.
type ProfileService struct {
	db  *gorm.DB
	hub *RealtimeHub
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db, hub: GetRealtimeHub()}
}

// Get returns the user's profile, creating an empty one if none exists.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	db := s.db.WithContext(ctx)

	var profile models.Profile
	err := db.Where("id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = models.Profile{ID: userID}
	if err := db.Create(&profile).Error; err != nil {
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}
	return &profile, nil
}

// Update applies the non-nil fields and notifies the owner's subscribers.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error) {
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !utils.IsValidPhone(phone) {
			return nil, &ValidationError{Field: "phone", Message: "Phone number must be exactly 10 digits"}
		}
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	setField := func(column string, value *string) {
		if value == nil {
			return
		}
		if v := strings.TrimSpace(*value); v != "" {
			changes[column] = v
		} else {
			changes[column] = nil
		}
	}
	setField("full_name", in.FullName)
	setField("phone", in.Phone)
	setField("address", in.Address)
	setField("city", in.City)
	setField("avatar_url", in.AvatarURL)

	db := s.db.WithContext(ctx)
	if len(changes) > 0 {
		if err := db.Model(profile).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	if err := db.Where("id = ?", userID).First(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}

	now := time.Now().UTC()
	s.hub.Publish(userID, RealtimeEvent{
		Type:            "UPDATE",
		Table:           "profiles",
		Record:          *profile,
		CommitTimestamp: now,
	})
	publishEvent(ctx, SubjectProfileUpdated, ProfileEvent{UserID: userID, OccurredAt: now})
	return profile, nil
}

// SetAvatarURL points the profile at a newly uploaded avatar.
func (s *ProfileService) SetAvatarURL(ctx context.Context, userID, url string) (*models.Profile, error) {
	return s.Update(ctx, userID, ProfileUpdate{AvatarURL: &url})
}
