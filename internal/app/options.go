// Package service provides the dispatcher that orchestrates the moderation
// relay.
package service

import (
	"time"

	"github.com/kameshsampath/demo4-dashboard/internal/adapters/fetch"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of enrichment workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the intake queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithFetchTimeout bounds a single image fetch. Zero disables the bound.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout >= 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithMaxImageBytes caps the size of fetched image payloads.
func WithMaxImageBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

// WithFetcher injects a custom image fetcher.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
