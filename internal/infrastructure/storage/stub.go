package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	catalogapp "github.com/preorder/backoffice/internal/application/catalog"
)

// StubImageStorage hands out fake upload URLs for local development
type StubImageStorage struct {
	BaseURL string
}

// NewStubImageStorage creates a StubImageStorage rooted at baseURL
func NewStubImageStorage(baseURL string) *StubImageStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/images"
	}
	return &StubImageStorage{BaseURL: strings.TrimRight(baseURL, "/")}
}

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// GenerateUploadURL returns an unsigned URL that expires after expiresIn
func (s *StubImageStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiry
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns BaseURL joined with key
func (s *StubImageStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}
