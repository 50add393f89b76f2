package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds database connection settings.
// Driver selects the backend: "postgres" (default) or "sqlite" for local runs.
type DatabaseConfig struct {
	Driver             string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	Path               string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for an AWS S3 (or S3-compatible) bucket.
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	UsePathStyle bool
}

// StorageConfig selects and configures the object store holding documents.
type StorageConfig struct {
	Driver        string // "minio" | "s3"
	PublicBaseURL string
	PublicBucket  string
	MinIO         MinIOConfig
	S3            S3Config
}

// ViewerConfig controls how gated documents are presented.
type ViewerConfig struct {
	EmbedBaseURL string
	ProbeEnabled bool
	ProbeTimeout time.Duration
}

// AuthConfig holds operator authentication settings.
type AuthConfig struct {
	JWTSecret   string
	AdminEmails []string
	AdminRoles  []string
}

// RetryConfig tunes the backoff used on catalog read paths.
type RetryConfig struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Timezone       string
	UploadMaxBytes int64
	Database       DatabaseConfig
	Storage        StorageConfig
	Viewer         ViewerConfig
	Auth           AuthConfig
	Retry          RetryConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 25<<20)),
		Database: DatabaseConfig{
			Driver:             strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			Path:               getEnv("DB_PATH", "./data/securedoc.db"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", "minio")),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			PublicBucket:  getEnv("STORAGE_PUBLIC_BUCKET", "secure-books"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "secure-books"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			S3: S3Config{
				Region:       getEnv("S3_REGION", "us-east-1"),
				Bucket:       getEnv("S3_BUCKET", "secure-books"),
				AccessKey:    getEnv("S3_ACCESS_KEY", ""),
				SecretKey:    getEnv("S3_SECRET_KEY", ""),
				BaseEndpoint: getEnv("S3_BASE_ENDPOINT", ""),
				UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),
			},
		},
		Viewer: ViewerConfig{
			EmbedBaseURL: getEnv("VIEWER_EMBED_BASE_URL", "https://docs.google.com/viewer"),
			ProbeEnabled: getEnvBool("VIEWER_PROBE_ENABLED", true),
			ProbeTimeout: getEnvDuration("VIEWER_PROBE_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
			AdminEmails: getEnvCSV("ADMIN_EMAILS", nil),
			AdminRoles:  getEnvCSV("ADMIN_ROLES", []string{"admin"}),
		},
		Retry: RetryConfig{
			MaxTries:        uint(getEnvInt("RETRY_MAX_TRIES", 3)),
			InitialInterval: getEnvDuration("RETRY_INITIAL_INTERVAL", 200*time.Millisecond),
			MaxElapsed:      getEnvDuration("RETRY_MAX_ELAPSED", 5*time.Second),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}

// getEnvCSV splits a comma separated value, dropping blanks.
func getEnvCSV(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
