package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("JWT_SECRET", "jwt")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_MODE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StorageModeLocal, cfg.Storage.Mode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:8080/media", cfg.Storage.PublicBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("ADMIN_TOKEN_TTL_HOURS", "2")
	t.Setenv("STORAGE_MODE", "GCS")
	t.Setenv("GCS_BUCKET_NAME", "mall-logos")
	t.Setenv("POSTGRES_NAME", "mall_test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, StorageModeGCS, cfg.Storage.Mode)
	assert.Contains(t, cfg.PostgresDSN(), "/mall_test?sslmode=disable")
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("JWT_SECRET", "jwt")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestLoadRejectsGCSWithoutBucket(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_MODE", "gcs")
	t.Setenv("GCS_BUCKET_NAME", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GCS_BUCKET_NAME")
}

func TestLoadRejectsUnknownStorageMode(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_MODE", "s3")
	_, err := Load()
	require.Error(t, err)
}

func TestReadSkipsAuthChecks(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_MODE", "local")

	cfg := Read()
	require.NoError(t, cfg.ValidateStorage())
	assert.Error(t, cfg.Validate())
}
