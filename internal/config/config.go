// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":1234".
	Addr string `koanf:"addr"`

	// ScoreStreamURL is the websocket URL of the upstream score gateway feed.
	ScoreStreamURL string `koanf:"score_stream_url"`

	// LeadersURL is the HTTP URL polled for leaderboard snapshots.
	LeadersURL string `koanf:"leaders_url"`

	// LeadersPollIntervalMS is the leaderboard poll period in milliseconds.
	LeadersPollIntervalMS int `koanf:"leaders_poll_interval_ms"`

	// QueueSize bounds the in-memory intake queue feeding enrichment.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of enrichment workers.
	WorkerCount int `koanf:"worker_count"`

	// FetchTimeoutMS bounds a single image fetch. Zero disables the timeout.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// MaxImageBytes caps the size of a fetched image payload.
	MaxImageBytes int64 `koanf:"max_image_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":1234",
		ScoreStreamURL:        "ws://localhost:1235/dashboard",
		LeadersURL:            "http://localhost:1235/leaders",
		LeadersPollIntervalMS: 800,
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 4,
		FetchTimeoutMS:        30_000,
		MaxImageBytes:         8 << 20,
	}
}
