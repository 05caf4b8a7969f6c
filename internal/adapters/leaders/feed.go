package leaders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
	"github.com/kameshsampath/demo4-dashboard/pkg/metrics"
)

// Default feed configuration.
const (
	defaultPollInterval = 800 * time.Millisecond
	defaultFetchTimeout = 5 * time.Second
)

// Feed polls the upstream leaders endpoint and refreshes a Cache.
type Feed struct {
	url      string
	cache    *Cache
	client   *http.Client
	interval time.Duration
	log      logger.Logger
}

// NewFeed creates a poller refreshing cache from url.
func NewFeed(url string, cache *Cache, opts ...Option) *Feed {
	f := &Feed{
		url:      url,
		cache:    cache,
		client:   &http.Client{Timeout: defaultFetchTimeout},
		interval: defaultPollInterval,
		log:      logger.Get().Named("leaders"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run polls until ctx is canceled. A failed poll keeps the previous
// snapshot; the cache is only ever replaced with a complete one.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.refresh(ctx); err != nil {
				metrics.RecordLeaderboardRefreshFailure()
				metrics.RecordErrorByComponent("leaders", "refresh")
				f.log.Warn(ctx, "leaderboard refresh failed", logger.Error(err))
				continue
			}
			metrics.RecordLeaderboardRefresh()
		}
	}
}

// refresh performs one poll and swaps the cache on success.
func (f *Feed) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrRefresh, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}

	var snap model.LeaderboardSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	if snap.Top10 == nil {
		snap.Top10 = []model.Player{}
	}
	if snap.Providers == nil {
		snap.Providers = map[string]int{}
	}

	f.cache.Update(snap)
	return nil
}
