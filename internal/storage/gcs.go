package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"mall-site-backend/internal/logger"
)

type GCSStore struct {
	log       *logger.Logger
	client    *gcs.Client
	bucket    string
	cdnDomain string
}

// NewGCSStore uses application default credentials.
func NewGCSStore(ctx context.Context, bucket, cdnDomain string, log *logger.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS bucket name")
	}
	client, err := gcs.NewClient(ctx, option.WithScopes(gcs.ScopeReadWrite))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	storeLog := log.With("service", "GCSStore")
	storeLog.Info("Object storage initialized", "mode", "gcs", "bucket", bucket, "cdn_domain", cdnDomain)
	return &GCSStore{log: storeLog, client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	return gcsPublicURL(s.bucket, s.cdnDomain, key)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func gcsPublicURL(bucket, cdnDomain, key string) string {
	escaped := escapeKey(key)
	if cdn := strings.TrimRight(strings.TrimSpace(cdnDomain), "/"); cdn != "" {
		if !strings.HasPrefix(cdn, "http://") && !strings.HasPrefix(cdn, "https://") {
			cdn = "https://" + cdn
		}
		return cdn + "/" + escaped
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, escaped)
}

func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
