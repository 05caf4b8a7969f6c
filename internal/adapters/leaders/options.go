package leaders

import (
	"net/http"
	"time"

	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Option applies a configuration option to the Feed.
type Option func(*Feed)

// WithInterval sets the poll period.
func WithInterval(interval time.Duration) Option {
	return func(f *Feed) {
		if interval > 0 {
			f.interval = interval
		}
	}
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *Feed) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets a custom logger for the feed.
func WithLogger(log logger.Logger) Option {
	return func(f *Feed) {
		if log != nil {
			f.log = log
		}
	}
}
