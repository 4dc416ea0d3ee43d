package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Driver names accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Image backends accepted in IMAGE_BACKEND.
const (
	ImageBackendLocal = "local"
	ImageBackendS3    = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver    string
	DBPath      string
	DatabaseURL string

	// Redis configuration. An empty RedisURL disables the recipe list cache.
	RedisURL      string
	RedisPassword string
	CacheTTL      time.Duration

	// JWT configuration
	JWTSecret   string
	TokenTTL    time.Duration
	RequireAuth bool

	// Image intake
	UploadDir    string
	MaxUploadMB  int
	ImageBackend string
	S3BucketName string
	AWSRegion    string
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaultConfig()

	loadEnvConfig(cfg)

	switch env {
	case CI:
		// CI passes everything through environment variables
	case Development, Test:
		loadOptionalSecrets(cfg)
		if cfg.JWTSecret == "" {
			secret, err := randomSecret()
			if err != nil {
				return nil, fmt.Errorf("failed to generate development jwt secret: %w", err)
			}
			log.Printf("WARNING: no jwt_secret configured, using a random per-process secret (%s environment)", env)
			cfg.JWTSecret = secret
		}
	case Production:
		loadOptionalSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerPort:     "8080",
		ServerHost:     "",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		DBDriver:       DriverSQLite,
		DBPath:         "./recipes.db",
		CacheTTL:       5 * time.Minute,
		TokenTTL:       time.Hour,
		UploadDir:      "./uploads",
		MaxUploadMB:    10,
		ImageBackend:   ImageBackendLocal,
		S3BucketName:   "recipebox-uploads",
	}
}

// loadEnvConfig overlays environment variables on top of the defaults
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", cfg.TokenTTL)
	cfg.RequireAuth = getEnvBool("REQUIRE_AUTH", cfg.RequireAuth)

	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.ImageBackend = getEnv("IMAGE_BACKEND", cfg.ImageBackend)
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", cfg.S3BucketName)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
}

// loadOptionalSecrets fills sensitive values that were not set through the environment
// from Docker secrets
func loadOptionalSecrets(cfg *Config) {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = readSecret("database_url")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARNING: ignoring invalid %s=%q: %v", key, v, err)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARNING: ignoring invalid %s=%q: %v", key, v, err)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARNING: ignoring invalid %s=%q: %v", key, v, err)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
