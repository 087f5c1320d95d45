package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreBackendSheets   = "sheets"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config holds all application configuration loaded from environment variables.
// It is built once at startup and handed to constructors; nothing below main
// reads the environment directly.
type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins []string

	Admin    AdminConfig
	Store    StoreConfig
	Sheets   SheetsConfig
	DB       DatabaseConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Voice    VoiceConfig
	S3       S3Config
	SMTP     SMTPConfig
	Log      LogConfig
	Worker   WorkerConfig
	Timeouts TimeoutConfig
}

// AdminConfig holds the single operator account. Login is disabled when
// either field is empty. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend         string
	CatalogCacheTTL time.Duration
}

// SheetsConfig contains the Google Sheets spreadsheet and credentials.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsPath string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OpenAIConfig contains chat completion provider settings.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// VoiceConfig contains ElevenLabs credentials and local audio storage.
type VoiceConfig struct {
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	AudioDir          string
}

// S3Config contains optional S3 storage for synthesized audio.
type S3Config struct {
	Region        string
	Bucket        string
	Endpoint      string
	PublicBaseURL string
	AccessKeyID   string
	SecretKey     string
}

// SMTPConfig contains mail settings for order confirmations.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LogConfig controls the optional rotating log file.
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	NotifyQueueSize int
}

// TimeoutConfig bounds calls to external collaborators.
type TimeoutConfig struct {
	Store time.Duration
	LLM   time.Duration
	TTS   time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8000")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	cfg.Admin = AdminConfig{
		Email:        getEnv("ADMIN_EMAIL", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	cfg.Store = StoreConfig{
		Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSheets)),
	}

	cfg.Sheets = SheetsConfig{
		SpreadsheetID:   getEnv("MAIN_SPREADSHEET_ID", ""),
		CredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", "keys/google/sheets.json"),
	}

	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.OpenAI = OpenAIConfig{
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:       getEnv("OPENAI_MODEL", "gpt-4"),
		MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 1000),
		Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
	}

	cfg.Voice = VoiceConfig{
		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		AudioDir:          getEnv("AUDIO_DIR", "static/audio"),
	}

	cfg.S3 = S3Config{
		Region:        getEnv("S3_REGION", "us-east-1"),
		Bucket:        getEnv("S3_BUCKET", ""),
		Endpoint:      getEnv("S3_ENDPOINT", ""),
		PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		AccessKeyID:   getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	cfg.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnvInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "orders@localhost"),
	}

	cfg.Log = LogConfig{
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
	}

	cfg.Worker = WorkerConfig{
		NotifyQueueSize: getEnvInt("NOTIFY_QUEUE_SIZE", 100),
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Store.CatalogCacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "60s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}
	if cfg.Timeouts.Store, err = parseDurationEnv("STORE_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}
	if cfg.Timeouts.LLM, err = parseDurationEnv("LLM_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	if cfg.Timeouts.TTS, err = parseDurationEnv("TTS_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid TTS_TIMEOUT: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for authentication")
	}

	switch c.Store.Backend {
	case StoreBackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("MAIN_SPREADSHEET_ID must be set when STORE_BACKEND=sheets")
		}
	case StoreBackendPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
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
