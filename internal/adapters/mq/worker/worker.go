// Package worker runs the enrichment workers that fetch image payloads off
// the intake queue and hand completed events back to the dispatcher.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/kameshsampath/demo4-dashboard/internal/adapters/fetch"
	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
	"github.com/kameshsampath/demo4-dashboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event is what workers read off the queue.
type Event = model.ScoredImage

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Sink receives enrichment completions. The dispatcher implements it; all
// side effects on shared state happen there, never inside the worker.
type Sink interface {
	Deliver(ctx context.Context, ev Event, enriched bool)
}

// Worker processes events until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// EnrichWorker fetches image payloads for queued events. Each worker handles
// one event at a time; concurrency comes from running several workers, so
// enrichments for distinct events overlap freely.
type EnrichWorker struct {
	queue   Queue
	fetcher fetch.Fetcher
	sink    Sink
	name    string

	shutdown chan struct{}
	done     chan struct{}

	log logger.Logger
}

// NewEnrichWorker creates a new worker with configuration options.
func NewEnrichWorker(queue Queue, fetcher fetch.Fetcher, sink Sink, opts ...Option) *EnrichWorker {
	w := &EnrichWorker{
		queue:    queue,
		fetcher:  fetcher,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.log = w.log.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *EnrichWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.process(ctx, ev)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *EnrichWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.log.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process enriches a single event and posts the completion to the sink.
// Enrichment never fails outward: a fetch error degrades the event to the
// fallback delivery path instead of dropping it.
func (w *EnrichWorker) process(ctx context.Context, ev Event) {
	start := time.Now()
	image, err := w.fetcher.Fetch(ctx, ev.ImageURL)
	metrics.RecordEnrichmentLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordEnrichmentFailure()
		metrics.RecordErrorByComponent("worker", "fetch")
		w.log.Warn(ctx, "image fetch failed; delivering without payload",
			logger.String("id", ev.ID),
			logger.String("imageURL", ev.ImageURL),
			logger.Error(err),
		)
		w.sink.Deliver(ctx, ev, false)
		return
	}

	metrics.RecordEnrichmentSuccess()
	w.log.Debug(ctx, "image retrieved and encoded",
		logger.String("id", ev.ID),
		logger.Int("encodedBytes", len(image)),
	)

	ev.Image = image
	w.sink.Deliver(ctx, ev, true)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*EnrichWorker

	stopOnce sync.Once

	log logger.Logger
}

// NewPool creates a pool of workerCount enrichment workers.
func NewPool(workerCount int, queue Queue, fetcher fetch.Fetcher, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*EnrichWorker, workerCount),
		log:     logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewEnrichWorker(
			queue,
			fetcher,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// signalStop closes every worker's shutdown channel exactly once.
func (p *Pool) signalStop() {
	p.stopOnce.Do(func() {
		for _, w := range p.workers {
			close(w.shutdown)
		}
	})
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.signalStop()

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown stops the pool, waiting up to the pool timeout for workers to
// drain in-flight fetches.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.signalStop()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.log.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
