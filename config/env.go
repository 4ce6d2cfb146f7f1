package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	DB       DBConfig
	Upstream UpstreamConfig
	Auth     AuthConfig
	Guest    GuestConfig
}

type ServerConfig struct {
	Addr string
}

type DBConfig struct {
	DSN string
}

type UpstreamConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type GuestConfig struct {
	ScanCacheTTL time.Duration
	MenuCacheTTL time.Duration
	PollInterval time.Duration
	RetryDelay   time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	upstreamTimeout, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "10"))

	return Config{
		Server: ServerConfig{
			Addr: getEnv("GATEWAY_ADDR", ":8080"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			DSN: getEnv("HISTORY_DSN", ""),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_API_URL", "http://localhost:3000"),
			Token:   getEnv("UPSTREAM_API_TOKEN", ""),
			Timeout: time.Duration(upstreamTimeout) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("GUEST_JWT_SECRET", "tably-guest-secret"),
			TokenTTL:  getDurationEnv("GUEST_TOKEN_TTL", 4*time.Hour),
		},
		Guest: GuestConfig{
			ScanCacheTTL: getDurationEnv("SCAN_CACHE_TTL", 15*time.Minute),
			MenuCacheTTL: getDurationEnv("MENU_CACHE_TTL", 5*time.Minute),
			PollInterval: getDurationEnv("ORDER_POLL_INTERVAL", 20*time.Second),
			RetryDelay:   getDurationEnv("SCAN_RETRY_DELAY", 1500*time.Millisecond),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
