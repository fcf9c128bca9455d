package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ServiceConfig is the environment-driven configuration shared by the
// HTTP server and the queue worker.
type ServiceConfig struct {
	DatabaseURL string
	RabbitMQURL string
	LogLevel    string
	LogFormat   string
	CORSOrigin  string

	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// StorageConfig locates the S3-compatible bucket (Cloudflare R2 by default)
// that queued resumes are uploaded to.
type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string // overrides the R2 endpoint derived from AccountID
	Region          string
}

// Enabled reports whether enough settings are present to build a client.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != "" &&
		(s.Endpoint != "" || s.AccountID != "")
}

// ResolvedEndpoint returns Endpoint, or the R2 endpoint for AccountID.
func (s StorageConfig) ResolvedEndpoint() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	if s.AccountID == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID)
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Enabled reports whether throttling is on.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0 && r.Burst > 0
}

// LoadServiceConfig reads DATABASE_URL, RABBITMQ_URL, LOG_LEVEL, LOG_FORMAT,
// CORS_ORIGIN, R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY,
// R2_BUCKET, R2_ENDPOINT, R2_REGION, RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func LoadServiceConfig() (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "json"),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
		Storage: StorageConfig{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("R2_BUCKET"),
			Endpoint:        os.Getenv("R2_ENDPOINT"),
			Region:          envOr("R2_REGION", "auto"),
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 5, Burst: 10},
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", v)
		}
		cfg.RateLimit.RequestsPerSecond = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST %q", v)
		}
		cfg.RateLimit.Burst = burst
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "pretty":
		cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or pretty", cfg.LogFormat)
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
