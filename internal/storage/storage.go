package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mall-site-backend/internal/config"
	"mall-site-backend/internal/logger"
)

// ObjectStore accepts named uploads (overwriting existing keys) and resolves a public URL for a
// key without a network call.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PublicURL(key string) string
}

// New builds the object store selected by configuration.
func New(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (ObjectStore, error) {
	switch cfg.Mode {
	case config.StorageModeGCS:
		return NewGCSStore(ctx, cfg.Bucket, cfg.CDNDomain, log)
	case config.StorageModeLocal:
		return NewLocalStore(cfg.MediaDir, cfg.PublicBaseURL, log)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}
}

// ContentTypeForKey guesses the content type of an image key from its extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(s, ".avif"):
		return "image/avif"
	default:
		return "application/octet-stream"
	}
}
