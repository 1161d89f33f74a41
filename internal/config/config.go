package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL       string
	DatabaseDriver    string
	SessionSecret     string
	SessionIssuer     string
	SessionTTL        time.Duration
	APITokenTTL       time.Duration
	StorageDriver     string
	StoragePath       string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3PathStyle       bool
	KafkaBrokers      []string
	KafkaEventsTopic  string
	TokenSweepSeconds int
	MigrationsDir     string
	CorsOrigins       []string
	Port              string
	LogDir            string
	LogRetentionDays  int
	LogLevel          string
}

// Load reads the environment. Missing required variables or unsupported
// driver names are reported as an error.
func Load() (cfg Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	cfg = Config{
		DatabaseURL:       mustEnv("DATABASE_URL"),
		DatabaseDriver:    strings.ToLower(envOr("DATABASE_DRIVER", "pgx")),
		SessionSecret:     mustEnv("SESSION_SECRET"),
		SessionIssuer:     envOr("SESSION_ISSUER", "genetrack"),
		SessionTTL:        time.Duration(envOrInt("SESSION_TTL_SECONDS", 14400)) * time.Second,
		APITokenTTL:       time.Duration(envOrInt("API_TOKEN_TTL_SECONDS", 2592000)) * time.Second,
		StorageDriver:     strings.ToLower(envOr("STORAGE_DRIVER", "fs")),
		StoragePath:       envOr("STORAGE_PATH", "storage/files"),
		S3Bucket:          envOr("S3_BUCKET", ""),
		S3Region:          envOr("S3_REGION", "eu-central-1"),
		S3Endpoint:        envOr("S3_ENDPOINT", ""),
		S3PathStyle:       envOrBool("S3_PATH_STYLE", false),
		KafkaBrokers:      parseCSV(envOr("KAFKA_BROKERS", "")),
		KafkaEventsTopic:  envOr("KAFKA_EVENTS_TOPIC", "genetrack.events"),
		TokenSweepSeconds: envOrInt("TOKEN_SWEEP_SECONDS", 300),
		MigrationsDir:     envOr("MIGRATIONS_DIR", "migrations"),
		CorsOrigins:       parseCSV(envOr("CORS_ORIGINS", "")),
		Port:              envOr("PORT", "8080"),
		LogDir:            envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:  envOrInt("LOG_RETENTION_DAYS", 7),
		LogLevel:          strings.ToLower(envOr("LOG_LEVEL", "info")),
	}
	switch cfg.DatabaseDriver {
	case "pgx", "sqlite":
	case "postgres":
		cfg.DatabaseDriver = "pgx"
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	switch cfg.StorageDriver {
	case "fs":
	case "s3":
		if cfg.S3Bucket == "" {
			return Config{}, fmt.Errorf("STORAGE_DRIVER=s3 needs S3_BUCKET")
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.TokenSweepSeconds <= 0 {
		cfg.TokenSweepSeconds = 300
	}
	return cfg, nil
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
