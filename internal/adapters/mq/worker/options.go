// Package worker runs the enrichment workers that fetch image payloads off
// the intake queue and hand completed events back to the dispatcher.
package worker

import (
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Option applies a configuration option to the EnrichWorker.
type Option func(*EnrichWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *EnrichWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) Option {
	return func(w *EnrichWorker) {
		if log != nil {
			w.log = log
		}
	}
}
