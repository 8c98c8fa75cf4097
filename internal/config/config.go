package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	StoreLatency time.Duration
	SeedData     bool

	ReportLocale   string
	ReportTimezone string
	CSVFormat      string

	StatsCacheTTL      time.Duration
	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NotifyChannel string

	WorkerConcurrency int

	// run the report worker inside the API process; off when cmd/worker runs separately
	WorkerInProcess  bool
	WorkerHealthPort int

	OTLPEndpoint    string
	OTelServiceName string
}

// Load reads the environment, after merging in a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreLatency: time.Duration(getEnvInt("STORE_LATENCY_MS", 500)) * time.Millisecond,
		SeedData:     getEnvBool("SEED_DATA", true),

		ReportLocale:   getEnv("REPORT_LOCALE", "th-TH"),
		ReportTimezone: getEnv("REPORT_TIMEZONE", "Asia/Bangkok"),
		CSVFormat:      getEnv("CSV_FORMAT", "legacy"),

		StatsCacheTTL:      time.Duration(getEnvInt("STATS_CACHE_TTL_SECONDS", 5)) * time.Second,
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		NotifyChannel: getEnv("NOTIFY_CHANNEL", "courseadmin:notifications"),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		WorkerInProcess:   getEnvBool("WORKER_IN_PROCESS", true),
		WorkerHealthPort:  getEnvInt("WORKER_HEALTH_PORT", 8081),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "courseadmin"),
	}
}

// Location resolves ReportTimezone, falling back to UTC for unknown zones.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not an integer, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not a boolean, using %t\n", key, v, fallback)
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
