package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/ctrlmarket/ctrlmarket-api/utils"
)

// MockImageService is an in-memory ImageService for testing
type MockImageService struct {
	images map[string]bool // stored image keys
	mu     sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		images: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage validates the file the same way the real service does and
// records the key without storing any bytes
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	imageKey := fmt.Sprintf("products/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.images[imageKey] = true
	m.mu.Unlock()

	return imageKey, nil
}

// GetImageURL returns a deterministic mock URL for a stored key
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	exists := m.images[imageKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("image not found in mock storage: %s", imageKey)
	}

	return fmt.Sprintf("https://mock-storage.example.com/%s", imageKey), nil
}

// DeleteImage removes a key from mock storage
func (m *MockImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.images, imageKey)
	m.mu.Unlock()

	return nil
}

// ImageExists checks if a key is present (for testing assertions)
func (m *MockImageService) ImageExists(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.images[imageKey]
}
