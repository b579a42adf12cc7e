package config

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GRPCPort    string
	WebPort     string
	DatabaseURL string // empty runs on the in-memory store
	JWTSecret   string
	RedisAddr   string // empty disables the name cache
	RedisTTL    time.Duration
	DataCoreURL string // empty disables data sync
	SyncCron    string
	LogLevel    string
	RateRPS     float64
	RateBurst   int
}

// Load reads .env files (if present) and then the environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	cfg := Config{
		GRPCPort:    getEnv("PORT", "50051"),
		WebPort:     getEnv("WEB_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		DataCoreURL: os.Getenv("DATACORE_URL"),
		SyncCron:    getEnv("SYNC_CRON", "@every 1h"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
	if cfg.JWTSecret == "" {
		return Config{}, &configError{message: "JWT_SECRET is required"}
	}

	var err error
	if cfg.RedisTTL, err = getEnvDuration("REDIS_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateRPS, err = getEnvFloat("RATE_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = getEnvInt("RATE_BURST", 10); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger returns the process logger. Debug lines are dropped unless
// LOG_LEVEL=debug.
func (c Config) Logger() (info, debug *log.Logger) {
	info = log.New(os.Stdout, "", log.LstdFlags)
	debug = log.New(io.Discard, "[DEBUG] ", log.LstdFlags)
	if c.LogLevel == "debug" {
		debug.SetOutput(os.Stdout)
	}
	return info, debug
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, &configError{message: "invalid int for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &configError{message: "invalid number for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, &configError{message: "invalid duration for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

type configError struct {
	message string
}

func (e *configError) Error() string {
	return e.message
}
