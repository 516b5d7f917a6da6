// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory award request queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of award workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxListLimit caps GET /awards?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// StoreDriver selects the award store: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// RatingThreshold is the inclusive rating at which HighRate applies.
	RatingThreshold float64 `koanf:"rating_threshold"`

	// HighRate and StandardRate are the two bonus rates.
	HighRate     float64 `koanf:"high_rate"`
	StandardRate float64 `koanf:"standard_rate"`

	// StrictValidation rejects negative salaries and ratings outside [0, 5].
	StrictValidation bool `koanf:"strict_validation"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       100_000,
		MaxListLimit:     100,
		StoreDriver:      StoreMemory,
		SQLitePath:       "bonus.db",
		RatingThreshold:  4,
		HighRate:         0.10,
		StandardRate:     0.05,
		StrictValidation: false,
	}
}
