// Package fetch retrieves remote images and encodes them for transport.
package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default fetch configuration.
const (
	defaultTimeout  = 30 * time.Second
	defaultMaxBytes = 8 << 20
)

// Fetcher turns an image URL into a base64-encoded payload.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implements Fetcher over an HTTP client.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// New creates an HTTP fetcher with configuration options.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url and returns the body base64-encoded.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: unexpected status %d for %s", ErrFetch, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrTooLarge, f.maxBytes)
	}

	return base64.StdEncoding.EncodeToString(body), nil
}
