package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// 各コンポーネントにはコンストラクタ引数として明示的に渡す。
type Config struct {
	// Database
	DatabaseURL string

	// Upstream（求人・面接ドメインを所有する外部バックエンド）
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// Session
	SessionMaxAge int

	// Rate Limit（req/min/user）
	RateLimitGeneral    int
	RateLimitGeneration int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// DefaultUpstreamBaseURL はUPSTREAM_BASE_URL未設定時のローカル既定値。
const DefaultUpstreamBaseURL = "http://127.0.0.1:8000"

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.UpstreamBaseURL = getEnvString("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL)
	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 604800) // 7日
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGeneration = getEnvInt("RATE_LIMIT_GENERATION", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:3000")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
