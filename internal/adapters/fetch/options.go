// Package fetch retrieves remote images and encodes them for transport.
package fetch

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout bounds a single fetch. Zero disables the timeout entirely, in
// which case a hung fetch stalls only its own event.
func WithTimeout(timeout time.Duration) Option {
	return func(f *HTTPFetcher) {
		if timeout >= 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithMaxBytes caps the accepted payload size.
func WithMaxBytes(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}
