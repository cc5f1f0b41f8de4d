package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const (
	// MaxAvatarSize is 2MB in bytes
	MaxAvatarSize = 2 * 1024 * 1024
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ImageInfo is what validation learned about an uploaded image.
type ImageInfo struct {
	ContentType string
	Extension   string // without the leading dot
}

// ValidateAvatarFile checks the size cap and sniffs the content to make sure
// it is an image. The declared Content-Type header is not trusted.
func ValidateAvatarFile(fileHeader *multipart.FileHeader) (*ImageInfo, error) {
	if fileHeader.Size > MaxAvatarSize {
		return nil, &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("Image must be less than %dMB", MaxAvatarSize/(1024*1024)),
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect uploaded file: %w", err)
	}

	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, &FileUploadError{
			Code:    "INVALID_FILE_TYPE",
			Message: "Please select an image file",
		}
	}

	ext := strings.TrimPrefix(mtype.Extension(), ".")
	if ext == "" {
		ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	}

	return &ImageInfo{
		ContentType: strings.SplitN(mtype.String(), ";", 2)[0],
		Extension:   ext,
	}, nil
}

// SaveUploadedFile writes the uploaded file to uploadDir/key, creating any
// intermediate directories.
func SaveUploadedFile(fileHeader *multipart.FileHeader, uploadDir, key string) (err error) {
	fullPath := filepath.Join(uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer closeLogged(src, "source file")

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// IsSafePathSegment rejects empty names and anything that could escape a
// directory when joined to a path.
func IsSafePathSegment(name string) bool {
	if name == "" || name == "." {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, "/\\")
}

// closeLogged closes c and logs a failure instead of returning it.
func closeLogged(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		logrus.WithError(err).WithField("file", what).Warn("Failed to close file")
	}
}
