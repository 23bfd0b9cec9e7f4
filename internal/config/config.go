package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ListenAddr is the fixed application bind address.
const ListenAddr = "0.0.0.0:8000"

// DefaultWorkers is used when WORKERS is unset or not an unsigned integer.
const DefaultWorkers = 16

// Config holds all runtime configuration loaded from environment variables.
// Every field has a default and Load never fails: invalid values fall back
// to that default.
type Config struct {
	// Server
	ListenAddr      string
	Workers         int
	SetGOMAXPROCS   bool
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Optional Prometheus listener; empty disables it.
	MetricsAddr string
}

func Load() *Config {
	return &Config{
		ListenAddr:      ListenAddr,
		Workers:         Workers(),
		SetGOMAXPROCS:   getBool("SET_GOMAXPROCS", true),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
}

// Workers resolves the worker count from the WORKERS environment variable.
func Workers() int {
	v, ok := os.LookupEnv("WORKERS")
	return ParseWorkers(v, ok)
}

// ParseWorkers turns the raw WORKERS value into a worker count. Anything that
// is not an unsigned decimal integer (including an empty string) yields
// DefaultWorkers. Zero is returned as is.
func ParseWorkers(raw string, present bool) int {
	if !present {
		return DefaultWorkers
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, strconv.IntSize-1)
	if err != nil {
		return DefaultWorkers
	}
	return int(n)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
