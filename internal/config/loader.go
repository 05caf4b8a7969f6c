package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DEMO4_CONFIG is set
//  3. env (prefix DEMO4_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("DEMO4_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: DEMO4_ADDR, DEMO4_QUEUE_SIZE, ...
	// Map env keys like DEMO4_QUEUE_SIZE -> queue_size (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("DEMO4_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "demo4_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.ScoreStreamURL == "":
		return fmt.Errorf("%w: score_stream_url must not be empty", ErrInvalidConfig)
	case cfg.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case cfg.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case cfg.LeadersPollIntervalMS < 1:
		return fmt.Errorf("%w: leaders_poll_interval_ms must be positive", ErrInvalidConfig)
	case cfg.FetchTimeoutMS < 0:
		return fmt.Errorf("%w: fetch_timeout_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
