package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full application configuration, populated from
// environment variables.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	MinIO       MinIOConfig
	Plagiarism  PlagiarismConfig
	Translation TranslationConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PlagiarismConfig configures the external originality-check API.
// Timeout bounds the synchronous call made during an edit; the check is
// advisory and a timeout never fails the request.
type PlagiarismConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// TranslationConfig configures the external translation provider.
type TranslationConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	plagTimeout, err := time.ParseDuration(getEnv("PLAGIARISM_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAGIARISM_TIMEOUT: %w", err)
	}
	transTimeout, err := time.ParseDuration(getEnv("TRANSLATION_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSLATION_TIMEOUT: %w", err)
	}
	transCacheTTL, err := time.ParseDuration(getEnv("TRANSLATION_CACHE_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSLATION_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "TU E-News API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "tue_news"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "tue-news"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Plagiarism: PlagiarismConfig{
			BaseURL: getEnv("PLAGIARISM_API_URL", "http://localhost:9100"),
			APIKey:  getEnv("PLAGIARISM_API_KEY", ""),
			Timeout: plagTimeout,
		},
		Translation: TranslationConfig{
			BaseURL:  getEnv("TRANSLATION_API_URL", "http://localhost:9200"),
			APIKey:   getEnv("TRANSLATION_API_KEY", ""),
			Timeout:  transTimeout,
			CacheTTL: transCacheTTL,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate enforces settings that must not ship with defaults.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Plagiarism.APIKey == "" {
			fmt.Println("WARNING: Plagiarism API key not set - originality checks will fail open")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
