package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port               string
	OpenAIKey          string
	OpenAIEndpoint     string
	OpenAIModel        string
	OpenAITimeout      time.Duration
	Database           string
	LogMode            string
	LogFile            string
	RateLimitPerMinute int
	MaxPDFBytes        int64
	CORSAllowedOrigins []string
	TrustProxyHeaders  bool
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()
	cfg := FromEnv()

	if cfg.Database != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
			log.Fatalf("failed to ensure database dir %s: %v", cfg.Database, err)
		}
	}
	return cfg
}

// FromEnv builds a Config from the current environment without side effects.
func FromEnv() Config {
	return Config{
		Port:               getEnv("PORT", "8080"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint:     getEnv("OPENAI_API_ENDPOINT", "https://api.openai.com/v1"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout:      getDuration("OPENAI_TIMEOUT", 0),
		Database:           getEnv("DATABASE_PATH", "./data/study-buddy.db"),
		LogMode:            getEnv("LOG_MODE", "development"),
		LogFile:            os.Getenv("LOG_FILE"),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 20),
		MaxPDFBytes:        int64(getInt("MAX_PDF_BYTES", 12<<20)),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TrustProxyHeaders:  getBool("TRUST_PROXY_HEADERS", false),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
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
