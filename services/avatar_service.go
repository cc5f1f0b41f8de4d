package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/utils"
	"github.com/sirupsen/logrus"
)

// AvatarRoute is where locally stored avatars are served from.
const AvatarRoute = "/api/v1/avatars"

// avatarFilePattern matches the {millis}.{ext} part of an avatar key.
var avatarFilePattern = regexp.MustCompile(`^[0-9]+\.[A-Za-z0-9]+$`)

// LocalObjectStore keeps avatars on disk when no bucket is configured.
type LocalObjectStore struct {
	dir     string
	baseURL string
}

// NewLocalObjectStore stores under dir and builds URLs under baseURL.
func NewLocalObjectStore(dir, baseURL string) *LocalObjectStore {
	if baseURL == "" {
		baseURL = AvatarRoute
	}
	return &LocalObjectStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the root directory of the store.
func (l *LocalObjectStore) Dir() string {
	return l.dir
}

func (l *LocalObjectStore) UploadFile(_ context.Context, key string, fileHeader *multipart.FileHeader, _ string) error {
	return utils.SaveUploadedFile(fileHeader, l.dir, key)
}

func (l *LocalObjectStore) DeleteFile(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *LocalObjectStore) PublicURL(key string) string {
	return l.baseURL + "/" + key
}

// AvatarService validates avatar uploads, stores them and updates the
// owner's profile.
type AvatarService struct {
	store    S3Interface
	profiles *ProfileService
	now      func() time.Time
}

func NewAvatarService(store S3Interface, profiles *ProfileService) *AvatarService {
	return &AvatarService{store: store, profiles: profiles, now: time.Now}
}

// AvatarKey is the object key for an upload: {user_id}/{unix_millis}.{ext}
func AvatarKey(userID string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%d.%s", userID, at.UnixMilli(), ext)
}

// Upload stores a new avatar and points the profile at it. The file is
// validated before storage is touched. The previous avatar is removed
// when it lives in the same store.
func (s *AvatarService) Upload(ctx context.Context, userID string, fileHeader *multipart.FileHeader) (*models.Profile, error) {
	info, err := utils.ValidateAvatarFile(fileHeader)
	if err != nil {
		return nil, err
	}

	previous, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := AvatarKey(userID, s.now(), info.Extension)
	if err := s.store.UploadFile(ctx, key, fileHeader, info.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	profile, err := s.profiles.SetAvatarURL(ctx, userID, s.store.PublicURL(key))
	if err != nil {
		return nil, err
	}

	if oldKey, ok := s.keyOf(userID, previous.AvatarURL); ok && oldKey != key {
		if err := s.store.DeleteFile(ctx, oldKey); err != nil {
			logrus.WithError(err).WithField("key", oldKey).Warn("Failed to delete previous avatar")
		}
	}
	return profile, nil
}

// keyOf recovers the object key from a URL this store produced for userID.
// Keys outside the user's own prefix are never returned.
func (s *AvatarService) keyOf(userID string, url *string) (string, bool) {
	if url == nil || userID == "" {
		return "", false
	}
	prefix := s.store.PublicURL("")
	if !strings.HasPrefix(*url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(*url, prefix)
	file, ok := strings.CutPrefix(key, userID+"/")
	if !ok || !avatarFilePattern.MatchString(file) {
		return "", false
	}
	return key, true
}

// CheckURL rejects a client-supplied avatar URL that points into the store
// outside the user's own prefix. External URLs are left alone.
func (s *AvatarService) CheckURL(userID string, url *string) error {
	if url == nil {
		return nil
	}
	v := strings.TrimSpace(*url)
	if v == "" || !strings.HasPrefix(v, s.store.PublicURL("")) {
		return nil
	}
	if _, ok := s.keyOf(userID, &v); !ok {
		return &ValidationError{Field: "avatar_url", Message: "Avatar URL must point to one of your own uploads"}
	}
	return nil
}
