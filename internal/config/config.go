package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	LogMode  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string

	CORSOrigins []string

	AdminUsername string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	Storage StorageConfig
}

type StorageMode string

const (
	StorageModeLocal StorageMode = "local"
	StorageModeGCS   StorageMode = "gcs"
)

type StorageConfig struct {
	Mode StorageMode

	// gcs
	Bucket    string
	CDNDomain string

	// local
	MediaDir      string
	PublicBaseURL string
}

// Load reads the process environment and validates it for the HTTP server. Call
// godotenv.Load first to pick up a .env file.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the process environment without validating it. Tools that never issue admin
// tokens check only what they use.
func Read() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogMode:  getEnv("LOG_MODE", "development"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresName:     getEnv("POSTGRES_NAME", "mall"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      time.Duration(getInt("ADMIN_TOKEN_TTL_HOURS", 12)) * time.Hour,

		Storage: StorageConfig{
			Mode:          StorageMode(strings.ToLower(getEnv("STORAGE_MODE", string(StorageModeLocal)))),
			Bucket:        os.Getenv("GCS_BUCKET_NAME"),
			CDNDomain:     os.Getenv("GCS_CDN_DOMAIN"),
			MediaDir:      getEnv("MEDIA_DIR", "./media"),
			PublicBaseURL: strings.TrimRight(getEnv("MEDIA_PUBLIC_BASE_URL", "http://localhost:8080/media"), "/"),
		},
	}
}

func (c *Config) Validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("missing env var ADMIN_PASSWORD")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing env var JWT_SECRET")
	}
	return c.ValidateStorage()
}

func (c *Config) ValidateStorage() error {
	switch c.Storage.Mode {
	case StorageModeLocal:
		if c.Storage.MediaDir == "" {
			return fmt.Errorf("missing env var MEDIA_DIR")
		}
	case StorageModeGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("missing env var GCS_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("invalid STORAGE_MODE=%q; expected local or gcs", c.Storage.Mode)
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
		c.PostgresSSLMode,
	)
}

func getEnv(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func getInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
