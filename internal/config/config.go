/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FloorBackend selects where floor reference data is loaded from.
type FloorBackend string

const (
	FloorYAML     FloorBackend = "yaml"
	FloorPostgres FloorBackend = "postgres"
	FloorMySQL    FloorBackend = "mysql"
	FloorSQLite   FloorBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	MetricsBind string

	// Floor data source
	FloorBackend FloorBackend
	FloorPath    string // fixture file for the yaml backend
	FloorDSN     string // DSN for database backends

	// Engine policy knobs
	SlotStepMinutes   int // slot grid used by the booking form
	GraceMinutes      int // walk-in grace for the just-started slot
	BufferWarnMinutes int // advisor threshold for tight turnarounds

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("MAITRED_ENV", "development"),
		HTTPBind:    getEnv("MAITRED_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("MAITRED_HTTP_PORT", 8080),
		MetricsBind: getEnv("MAITRED_METRICS_BIND", "127.0.0.1:9000"),

		FloorBackend: FloorBackend(strings.ToLower(getEnv("MAITRED_FLOOR_BACKEND", string(FloorYAML)))),
		FloorPath:    getEnv("MAITRED_FLOOR_PATH", "./floor.yaml"),
		FloorDSN:     getEnv("MAITRED_FLOOR_DSN", ""),

		SlotStepMinutes:   getEnvInt("MAITRED_SLOT_STEP_MINUTES", 15),
		GraceMinutes:      getEnvInt("MAITRED_GRACE_MINUTES", 8),
		BufferWarnMinutes: getEnvInt("MAITRED_BUFFER_WARN_MINUTES", 10),

		TracingEnabled:    getEnvBool("MAITRED_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("MAITRED_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("MAITRED_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid MAITRED_HTTP_PORT: %d", cfg.HTTPPort)
	}

	switch cfg.FloorBackend {
	case FloorYAML:
		if cfg.FloorPath == "" {
			return nil, fmt.Errorf("MAITRED_FLOOR_PATH is required for the yaml backend")
		}
	case FloorPostgres, FloorMySQL, FloorSQLite:
		if cfg.FloorDSN == "" {
			return nil, fmt.Errorf("MAITRED_FLOOR_DSN is required for the %s backend", cfg.FloorBackend)
		}
	default:
		return nil, fmt.Errorf("unknown floor backend: %s", cfg.FloorBackend)
	}

	if cfg.SlotStepMinutes < 1 || cfg.SlotStepMinutes > 60 {
		return nil, fmt.Errorf("invalid MAITRED_SLOT_STEP_MINUTES: %d", cfg.SlotStepMinutes)
	}
	if cfg.GraceMinutes < 0 {
		return nil, fmt.Errorf("invalid MAITRED_GRACE_MINUTES: %d", cfg.GraceMinutes)
	}
	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		return nil, fmt.Errorf("invalid MAITRED_TRACING_SAMPLE_RATE: %f", cfg.TracingSampleRate)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
