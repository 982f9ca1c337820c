package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// StorageConfig selects the active backend for new uploads and holds the
// local temp directory used by the filesystem backend.
type StorageConfig struct {
	Backend string // "local" or "minio"
	TempDir string
}

// MinIOConfig holds object storage settings for the remote backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the externally reachable base URL used to build long-lived
	// object URLs by convention. Falls back to the endpoint when empty.
	PublicURL string
}

// OpenAIConfig holds settings for the chat-completion API client.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	TimeoutSec   int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string
	JWT     JWTConfig
	Storage StorageConfig
	MinIO   MinIOConfig
	OpenAI  OpenAIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", ""),
		Port:    getEnv("PORT", "3000"), // default only for non-sensitive value
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			ExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "local"),
			TempDir: getEnv("UPLOAD_TEMP_DIR", filepath.Join(os.TempDir(), "quickscan_uploads")),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "uploads"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			DefaultModel: getEnv("OPENAI_DEFAULT_MODEL", "gpt-4o-mini"),
			TimeoutSec:   getEnvInt("OPENAI_TIMEOUT_SEC", 30),
		},
	}
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
