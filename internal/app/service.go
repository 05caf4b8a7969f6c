// Package service provides the dispatcher that orchestrates the moderation
// relay: it accepts inbound score events, drives enrichment, queues records
// for review and routes them to moderator and dashboard connections.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kameshsampath/demo4-dashboard/internal/adapters/fetch"
	"github.com/kameshsampath/demo4-dashboard/internal/adapters/leaders"
	intake "github.com/kameshsampath/demo4-dashboard/internal/adapters/mq/queue"
	workerpool "github.com/kameshsampath/demo4-dashboard/internal/adapters/mq/worker"
	"github.com/kameshsampath/demo4-dashboard/internal/adapters/ws/registry"
	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
	"github.com/kameshsampath/demo4-dashboard/internal/domain/pending"
	"github.com/kameshsampath/demo4-dashboard/internal/domain/tally"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
	"github.com/kameshsampath/demo4-dashboard/pkg/metrics"
)

// Service is the dispatcher for the moderation relay.
type Service struct {
	mu sync.RWMutex

	// Core components
	pending    pending.Queue
	moderators *registry.Registry
	dashboards *registry.Registry
	totals     *tally.Totals
	cache      *leaders.Cache
	queue      intake.Queue
	fetcher    fetch.Fetcher
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	fetchTimeout  time.Duration
	maxImageBytes int64

	// State
	started bool

	// Logging
	log logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   0, // worker pool picks its own default
		queueSize:     10000,
		fetchTimeout:  30 * time.Second,
		maxImageBytes: 8 << 20,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	s.log.Info(ctx, "starting moderation relay...")

	s.pending = pending.NewInMemoryQueue()
	s.totals = tally.New()
	s.cache = leaders.NewCache()
	s.queue = intake.NewInMemoryQueue(
		intake.WithCapacity(s.queueSize),
	)
	if s.fetcher == nil {
		s.fetcher = fetch.New(
			fetch.WithTimeout(s.fetchTimeout),
			fetch.WithMaxBytes(s.maxImageBytes),
		)
	}

	s.moderators = registry.New("moderator",
		registry.WithGauge(metrics.UpdateModeratorConnections),
		registry.WithConnectHook(s.onModeratorConnect),
		registry.WithDisconnectHook(s.onModeratorDisconnect),
	)
	s.dashboards = registry.New("dashboard",
		registry.WithGauge(metrics.UpdateDashboardConnections),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.fetcher, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.log.Info(ctx, "moderation relay started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.log.Info(ctx, "stopping moderation relay...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.log.Info(ctx, "moderation relay stopped")
}

// Moderators exposes the moderator pool for the websocket endpoint.
func (s *Service) Moderators() *registry.Registry { return s.moderators }

// Dashboards exposes the dashboard pool for the websocket endpoint.
func (s *Service) Dashboards() *registry.Registry { return s.dashboards }

// LeaderCache exposes the leaderboard cache for the feed poller.
func (s *Service) LeaderCache() *leaders.Cache { return s.cache }

// Ingest handles one raw payload from the inbound score stream. Undecodable
// payloads are logged and dropped; events without an imageURL are not
// scoring events and are discarded silently.
func (s *Service) Ingest(ctx context.Context, payload []byte) {
	metrics.RecordEventReceived()

	var ev model.ScoredImage
	if err := json.Unmarshal(payload, &ev); err != nil {
		metrics.RecordEventDiscarded("decode_error")
		s.log.Warn(ctx, "error decoding score event", logger.Error(err))
		return
	}
	if ev.ImageURL == "" {
		metrics.RecordEventDiscarded("no_image_url")
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	s.log.Info(ctx, "received image", logger.String("id", ev.ID))

	// Running totals reflect accepted events, not successfully encoded
	// images, so they are stamped before enrichment starts.
	points, pictures := s.totals.Add(ev.Score)
	ev.TotalPoints = points
	ev.TotalPictureCount = pictures
	metrics.RecordEventAccepted()
	metrics.UpdateRunningTotals(points, pictures)

	if !s.queue.Enqueue(ctx, ev) {
		s.log.Error(ctx, "intake queue refused event", logger.String("id", ev.ID))
	}
}

// Deliver receives an enrichment completion from a worker and performs the
// queue insertion and moderator routing. It is the single place where
// enrichment results touch shared state.
func (s *Service) Deliver(ctx context.Context, ev model.ScoredImage, enriched bool) {
	s.pending.Push(ctx, ev)
	metrics.UpdatePendingRecords(s.pending.Size())

	if !enriched {
		// Breadth-over-precision fallback: without the payload every
		// moderator gets a chance to review the event.
		n := s.moderators.Broadcast(ctx, ev)
		metrics.RecordFallbackBroadcast()
		s.log.Info(ctx, "broadcast unenriched image to all moderators",
			logger.String("id", ev.ID),
			logger.Int("recipients", n),
		)
		return
	}

	entry, ok := s.moderators.Next()
	if !ok {
		metrics.RecordHeldEvent()
		s.log.Warn(ctx, "no moderator connected; holding image for next connect",
			logger.String("id", ev.ID),
		)
		return
	}

	if s.moderators.Send(ctx, entry, ev) {
		s.pending.Assign(ctx, ev.ID, entry.ID)
		metrics.RecordDispatch()
		s.log.Debug(ctx, "dispatched image to moderator",
			logger.String("id", ev.ID),
			logger.String("moderator", entry.ID),
		)
		return
	}

	// The selected connection went stale before the disconnect was
	// observed. Leave the record unassigned; the next connect or the
	// stale entry's removal re-dispatches it.
	s.log.Warn(ctx, "dispatch failed; leaving image unassigned",
		logger.String("id", ev.ID),
		logger.String("moderator", entry.ID),
	)
}

// Approve resolves a pending record and broadcasts it to all dashboards.
// An unknown id is a benign no-op reported via pending.ErrNotFound.
func (s *Service) Approve(ctx context.Context, id string) (model.ScoredImage, error) {
	rec, err := s.pending.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			metrics.RecordUnknownResolution()
			s.log.Info(ctx, "approval for unknown image", logger.String("id", id))
		}
		return model.ScoredImage{}, err
	}

	metrics.RecordApproval()
	metrics.UpdatePendingRecords(s.pending.Size())

	n := s.dashboards.Broadcast(ctx, rec.Event)
	metrics.RecordDashboardBroadcast()
	s.log.Info(ctx, "received approval",
		logger.String("id", id),
		logger.Int("dashboards", n),
	)
	return rec.Event, nil
}

// Reject resolves a pending record without forwarding it anywhere.
func (s *Service) Reject(ctx context.Context, id string) error {
	if _, err := s.pending.Reject(ctx, id); err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			metrics.RecordUnknownResolution()
			s.log.Info(ctx, "rejection for unknown image", logger.String("id", id))
		}
		return err
	}

	metrics.RecordRejection()
	metrics.UpdatePendingRecords(s.pending.Size())
	s.log.Info(ctx, "received rejection", logger.String("id", id))
	return nil
}

// Storm relays the storm flag to every dashboard. Stateless pass-through.
func (s *Service) Storm(ctx context.Context, on bool) {
	s.log.Info(ctx, "received storm request", logger.Bool("storm", on))
	s.dashboards.Broadcast(ctx, model.StormControl{Storm: on})
	metrics.RecordDashboardBroadcast()
}

// Leaders returns the current leaderboard snapshot.
func (s *Service) Leaders(ctx context.Context) model.LeaderboardSnapshot {
	return s.cache.Get()
}

// onModeratorConnect delivers records that were queued while no moderator
// was connected to the newly joined one.
func (s *Service) onModeratorConnect(ctx context.Context, e registry.Entry) {
	for _, rec := range s.pending.Unassigned(ctx) {
		if s.moderators.Send(ctx, e, rec.Event) {
			s.pending.Assign(ctx, rec.Event.ID, e.ID)
			metrics.RecordDispatch()
			s.log.Info(ctx, "delivered held image to new moderator",
				logger.String("id", rec.Event.ID),
				logger.String("moderator", e.ID),
			)
		}
	}
}

// onModeratorDisconnect re-dispatches records that were assigned to the
// departed moderator so reviews are not stranded.
func (s *Service) onModeratorDisconnect(ctx context.Context, e registry.Entry) {
	for _, rec := range s.pending.ByAssignee(ctx, e.ID) {
		next, ok := s.moderators.Next()
		if !ok {
			s.pending.Assign(ctx, rec.Event.ID, "")
			continue
		}
		if s.moderators.Send(ctx, next, rec.Event) {
			s.pending.Assign(ctx, rec.Event.ID, next.ID)
			metrics.RecordRedispatch()
			s.log.Info(ctx, "re-dispatched image after moderator loss",
				logger.String("id", rec.Event.ID),
				logger.String("moderator", next.ID),
			)
		} else {
			s.pending.Assign(ctx, rec.Event.ID, "")
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		points, pictures := s.totals.Snapshot()
		stats["pendingRecords"] = s.pending.Size()
		stats["moderators"] = s.moderators.Len()
		stats["dashboards"] = s.dashboards.Len()
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["totalPoints"] = points
		stats["totalPictureCount"] = pictures
	}

	return stats
}
