package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockS3Service is a mock implementation of S3Service for testing
type MockS3Service struct {
	uploadedFiles map[string][]byte // map of S3 key to file content
	contentTypes  map[string]string
	mu            sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		uploadedFiles: make(map[string][]byte),
		contentTypes:  make(map[string]string),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadFile simulates uploading a file to S3
func (m *MockS3Service) UploadFile(_ context.Context, key string, fileHeader *multipart.FileHeader, contentType string) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.uploadedFiles[key] = content
	m.contentTypes[key] = contentType
	m.mu.Unlock()

	return nil
}

// DeleteFile simulates deleting a file from S3
func (m *MockS3Service) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.uploadedFiles, key)
	delete(m.contentTypes, key)
	m.mu.Unlock()
	return nil
}

// PublicURL returns a fake bucket URL
func (m *MockS3Service) PublicURL(key string) string {
	return "https://mock-s3.local/avatars/" + key
}

// GetUploadedFiles returns all uploaded files (for testing assertions)
func (m *MockS3Service) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.uploadedFiles))
	for k, v := range m.uploadedFiles {
		files[k] = v
	}
	return files
}

// ContentType returns the content type an object was stored with
func (m *MockS3Service) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentTypes[key]
}

// FileExists checks if a file exists in mock storage
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[key]
	return exists
}

// Clear removes all files from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.uploadedFiles = make(map[string][]byte)
	m.contentTypes = make(map[string]string)
	m.mu.Unlock()
}
