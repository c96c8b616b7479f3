package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
// Note: This is a stateless configuration - the engine keeps no database and
// no per-user state. Auth and billing are handled upstream of this service.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Engine defaults, overridable per request
	MinPitch      int // lowest usable MIDI pitch
	MaxPitch      int // highest usable MIDI pitch
	CandidateCap  int // max voicing candidates per position
	NodeBudget    int // backtracking search budget (node expansions)
	MaxConcurrent int // simultaneous optimization runs
}

// Engine default constants (C3-C6 register, 88-key limits elsewhere).
const (
	defaultMinPitch      = 48
	defaultMaxPitch      = 84
	defaultCandidateCap  = 200
	defaultNodeBudget    = 200_000
	defaultMaxConcurrent = 8
)

func Load() *Config {
	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		SentryDSN:     getEnv("SENTRY_DSN", ""),
		MinPitch:      getEnvInt("ENGINE_MIN_PITCH", defaultMinPitch),
		MaxPitch:      getEnvInt("ENGINE_MAX_PITCH", defaultMaxPitch),
		CandidateCap:  getEnvInt("ENGINE_CANDIDATE_CAP", defaultCandidateCap),
		NodeBudget:    getEnvInt("ENGINE_NODE_BUDGET", defaultNodeBudget),
		MaxConcurrent: getEnvInt("ENGINE_MAX_CONCURRENT", defaultMaxConcurrent),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
