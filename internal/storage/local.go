package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mall-site-backend/internal/logger"
)

// LocalStore writes objects below a directory that the HTTP server exposes under publicBaseURL.
type LocalStore struct {
	log           *logger.Logger
	dir           string
	publicBaseURL string
}

func NewLocalStore(dir, publicBaseURL string, log *logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	storeLog := log.With("service", "LocalStore")
	storeLog.Info("Object storage initialized", "mode", "local", "dir", dir, "public_base_url", publicBaseURL)
	return &LocalStore{log: storeLog, dir: dir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Upload(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("move object into place: %w", err)
	}
	return nil
}

func (s *LocalStore) PublicURL(key string) string {
	return s.publicBaseURL + "/" + escapeKey(key)
}

func (s *LocalStore) pathFor(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
