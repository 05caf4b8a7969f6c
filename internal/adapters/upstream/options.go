// Package upstream consumes the score gateway's websocket feed.
package upstream

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Option applies a configuration option to the Stream.
type Option func(*Stream)

// WithDialer sets a custom websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(s *Stream) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithBackoff sets the reconnect backoff bounds.
func WithBackoff(minBackoff, maxBackoff time.Duration) Option {
	return func(s *Stream) {
		if minBackoff > 0 && maxBackoff >= minBackoff {
			s.minBackoff = minBackoff
			s.maxBackoff = maxBackoff
		}
	}
}

// WithLogger sets a custom logger for the stream.
func WithLogger(log logger.Logger) Option {
	return func(s *Stream) {
		if log != nil {
			s.log = log
		}
	}
}
