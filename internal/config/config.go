package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// DefaultUploadMaxBytes caps the size of an uploaded statement workbook.
const DefaultUploadMaxBytes int64 = 10 << 20

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Feed      FeedConfig
	Upload    UploadConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// FeedConfig holds the market data sources.
type FeedConfig struct {
	BrapiBaseURL string
	BrapiToken   string
	YahooBaseURL string
	CacheTTL     time.Duration // zero disables the response cache
}

// UploadConfig limits statement uploads.
type UploadConfig struct {
	MaxBytes int64
}

// SchedulerConfig holds cron specs for the periodic jobs. An empty spec disables the job.
type SchedulerConfig struct {
	DividendsSpec string
	PricesSpec    string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cacheTTL, err := getDuration("FEED_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	maxBytes, err := getInt64("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", maxBytes)
	}
	pretty, err := getBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}
	token, err := brapiToken()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_importer.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		Feed: FeedConfig{
			BrapiBaseURL: getEnv("BRAPI_BASE_URL", "https://brapi.dev"),
			BrapiToken:   token,
			YahooBaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			CacheTTL:     cacheTTL,
		},
		Upload: UploadConfig{
			MaxBytes: maxBytes,
		},
		Scheduler: SchedulerConfig{
			DividendsSpec: os.Getenv("SCHEDULE_DIVIDENDS"),
			PricesSpec:    os.Getenv("SCHEDULE_PRICES"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// brapiToken returns the plain BRAPI_TOKEN, or decrypts BRAPI_TOKEN_ENCRYPTED with the
// fernet key in ENCRYPTION_KEY when no plain token is set.
func brapiToken() (string, error) {
	if token := os.Getenv("BRAPI_TOKEN"); token != "" {
		return token, nil
	}
	encrypted := os.Getenv("BRAPI_TOKEN_ENCRYPTED")
	if encrypted == "" {
		return "", nil
	}
	key := os.Getenv("ENCRYPTION_KEY")
	if key == "" {
		return "", errors.New("BRAPI_TOKEN_ENCRYPTED is set but ENCRYPTION_KEY is empty")
	}
	return DecryptToken(encrypted, key)
}

// DecryptToken decrypts a fernet token with a base64 encoded 32-byte key.
func DecryptToken(token, key string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k})
	if msg == nil {
		return "", errors.New("failed to decrypt BRAPI_TOKEN_ENCRYPTED")
	}
	return string(msg), nil
}

// EncryptToken encrypts a secret for storage in BRAPI_TOKEN_ENCRYPTED.
func EncryptToken(secret, key string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid encryption key: %w", err)
	}
	tok, err := fernet.EncryptAndSign([]byte(secret), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return string(tok), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
