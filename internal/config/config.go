package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"

	StorageDriverSupabase = "supabase"
	StorageDriverS3       = "s3"
)

type Config struct {
	Port      string
	AppEnv    string
	LogLevel  string
	StaticDir string

	StoreDriver    string
	DBUrl          string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	SessionTTL     time.Duration
	ClientOrigin   string
	EnableDocs     bool
	MetricsUser    string
	MetricsPass    string
	AuthRatePerSec float64
	AuthRateBurst  int
	StorageDriver  string
	Supabase       SupabaseConfig
	S3             S3Config
}

type SupabaseConfig struct {
	URL        string
	Bucket     string
	ServiceKey string
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	appEnv := normalizeEnv(getEnv("APP_ENV", "development"))

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		if appEnv != "development" && appEnv != "test" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		jwtSecret = "dev"
	}

	storeDriver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreDriverPostgres)))
	switch storeDriver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", storeDriver)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", "")))
	switch storageDriver {
	case "", StorageDriverSupabase, StorageDriverS3:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", storageDriver)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "4000"),
		AppEnv:         appEnv,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StaticDir:      getEnv("STATIC_DIR", "../client/dist"),
		StoreDriver:    storeDriver,
		DBUrl:          getEnv("DB_URL", ""),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "fitquest"),
		JWTSecret:      jwtSecret,
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		EnableDocs:     getEnvBool("ENABLE_API_DOCS", false),
		MetricsUser:    getEnv("METRICS_USER", ""),
		MetricsPass:    getEnv("METRICS_PASS", ""),
		AuthRatePerSec: getEnvFloat("AUTH_RATE_LIMIT_PER_SEC", 5),
		AuthRateBurst:  getEnvInt("AUTH_RATE_LIMIT_BURST", 30),
		StorageDriver:  storageDriver,
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			Bucket:     getEnv("SUPABASE_BUCKET", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		},
		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		},
	}

	if cfg.StoreDriver == StoreDriverPostgres && cfg.DBUrl == "" {
		return nil, fmt.Errorf("DB_URL is required for the postgres store")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}

func (c *Config) MetricsEnabled() bool {
	return c != nil && c.MetricsUser != "" && c.MetricsPass != ""
}
