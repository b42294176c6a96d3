package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/preorder/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func minioConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Bucket:          "product-images",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKeyID = "" }, "credentials are required"},
		{"missing secret", func(c *config.StorageConfig) { c.SecretAccessKey = "" }, "credentials are required"},
		{"bad endpoint", func(c *config.StorageConfig) { c.Endpoint = "::not a url" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minioConfig()
			tt.mutate(cfg)
			_, err := NewS3ImageStorage(ctx, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ImageStorage(ctx, nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := minioConfig()
		cfg.PresignExpiry = 0
		storage, err := NewS3ImageStorage(ctx, cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, defaultPresignExpiry, storage.presignExpiry)
		assert.Equal(t, "product-images", storage.Bucket())
	})
}

func TestS3ImageStorage_GenerateUploadURL(t *testing.T) {
	storage, err := NewS3ImageStorage(context.Background(), minioConfig())
	require.NoError(t, err)

	t.Run("empty key", func(t *testing.T) {
		u, _, err := storage.GenerateUploadURL(context.Background(), "", "image/png", 0)
		assert.ErrorContains(t, err, "storage key is required")
		assert.Empty(t, u)
	})

	t.Run("presigned path style URL", func(t *testing.T) {
		u, expiresAt, err := storage.GenerateUploadURL(context.Background(), "products/p1/a.png", "image/png", 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:9000/product-images/products/p1/a.png?"))
		assert.Contains(t, u, "X-Amz-Signature=")
		assert.Contains(t, u, "X-Amz-Expires=600")
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("explicit expiry", func(t *testing.T) {
		u, _, err := storage.GenerateUploadURL(context.Background(), "k.jpg", "image/jpeg", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, u, "X-Amz-Expires=60")
	})
}

func TestS3ImageStorage_PublicURL(t *testing.T) {
	ctx := context.Background()

	t.Run("public base url", func(t *testing.T) {
		cfg := minioConfig()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		storage, err := NewS3ImageStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/products/a.png", storage.PublicURL("products/a.png"))
	})

	t.Run("path style endpoint", func(t *testing.T) {
		storage, err := NewS3ImageStorage(ctx, minioConfig())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/product-images/a.png", storage.PublicURL("a.png"))
	})

	t.Run("virtual hosted endpoint", func(t *testing.T) {
		cfg := minioConfig()
		cfg.Endpoint = "https://r2.example.com"
		cfg.UsePathStyle = false
		storage, err := NewS3ImageStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://product-images.r2.example.com/a.png", storage.PublicURL("a.png"))
	})

	t.Run("aws default", func(t *testing.T) {
		cfg := minioConfig()
		cfg.Endpoint = ""
		cfg.UsePathStyle = false
		storage, err := NewS3ImageStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://product-images.s3.amazonaws.com/a.png", storage.PublicURL("a.png"))
	})
}
