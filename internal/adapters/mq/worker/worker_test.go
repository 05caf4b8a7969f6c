package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/kameshsampath/demo4-dashboard/internal/adapters/mq/queue"
	worker "github.com/kameshsampath/demo4-dashboard/internal/adapters/mq/worker"
	model "github.com/kameshsampath/demo4-dashboard/internal/domain/model"
	logging "github.com/kameshsampath/demo4-dashboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan chan queue.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan queue.Event, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Event {
	return mq.eventChan
}

func (mq *mockQueue) addEvent(event queue.Event) {
	mq.eventChan <- event
}

type mockFetcher struct {
	mu      sync.RWMutex
	images  map[string]string
	errors  map[string]error
	fetched []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		images: make(map[string]string),
		errors: make(map[string]error),
	}
}

func (mf *mockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	mf.fetched = append(mf.fetched, url)
	if err, exists := mf.errors[url]; exists {
		return "", err
	}
	if image, exists := mf.images[url]; exists {
		return image, nil
	}
	return "ZGVmYXVsdA==", nil // default payload
}

func (mf *mockFetcher) setImage(url, image string) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	mf.images[url] = image
}

func (mf *mockFetcher) setError(url string, err error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	mf.errors[url] = err
}

type delivery struct {
	event    worker.Event
	enriched bool
}

type mockSink struct {
	mu         sync.Mutex
	deliveries []delivery
	notify     chan struct{}
}

func newMockSink() *mockSink {
	return &mockSink{
		notify: make(chan struct{}, 100),
	}
}

func (ms *mockSink) Deliver(ctx context.Context, ev worker.Event, enriched bool) {
	ms.mu.Lock()
	ms.deliveries = append(ms.deliveries, delivery{event: ev, enriched: enriched})
	ms.mu.Unlock()
	ms.notify <- struct{}{}
}

func (ms *mockSink) wait(t *testing.T, n int) []delivery {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ms.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]delivery, len(ms.deliveries))
	copy(out, ms.deliveries)
	return out
}

func TestEnrichWorker(t *testing.T) {
	convey.Convey("Given a new EnrichWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		q := newMockQueue()
		fetcher := newMockFetcher()
		sink := newMockSink()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewEnrichWorker(q, fetcher, sink)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with a custom name", func() {
			w := worker.NewEnrichWorker(q, fetcher, sink, worker.WithName("enrich-7"))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When processing an event whose fetch succeeds", func() {
			fetcher.setImage("http://img/1.jpg", "aW1hZ2UtYnl0ZXM=")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			w := worker.NewEnrichWorker(q, fetcher, sink)
			go w.Run(ctx)

			q.addEvent(model.ScoredImage{ID: "ev-1", ImageURL: "http://img/1.jpg", Score: 10})
			deliveries := sink.wait(t, 1)

			convey.Convey("Then the event should be delivered enriched", func() {
				convey.So(deliveries, convey.ShouldHaveLength, 1)
				convey.So(deliveries[0].enriched, convey.ShouldBeTrue)
				convey.So(deliveries[0].event.ID, convey.ShouldEqual, "ev-1")
				convey.So(deliveries[0].event.Image, convey.ShouldEqual, "aW1hZ2UtYnl0ZXM=")
			})
		})

		convey.Convey("When processing an event whose fetch fails", func() {
			fetcher.setError("http://img/broken.jpg", errors.New("connection refused"))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			w := worker.NewEnrichWorker(q, fetcher, sink)
			go w.Run(ctx)

			q.addEvent(model.ScoredImage{ID: "ev-2", ImageURL: "http://img/broken.jpg", Score: 20})
			deliveries := sink.wait(t, 1)

			convey.Convey("Then the event should still be delivered, unenriched", func() {
				convey.So(deliveries, convey.ShouldHaveLength, 1)
				convey.So(deliveries[0].enriched, convey.ShouldBeFalse)
				convey.So(deliveries[0].event.ID, convey.ShouldEqual, "ev-2")
				convey.So(deliveries[0].event.Image, convey.ShouldBeEmpty)
			})

			convey.Convey("And the original event fields should be intact", func() {
				convey.So(deliveries[0].event.Score, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When processing several events in a row", func() {
			fetcher.setImage("http://img/a.jpg", "YQ==")
			fetcher.setError("http://img/b.jpg", errors.New("404"))
			fetcher.setImage("http://img/c.jpg", "Yw==")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			w := worker.NewEnrichWorker(q, fetcher, sink)
			go w.Run(ctx)

			q.addEvent(model.ScoredImage{ID: "a", ImageURL: "http://img/a.jpg"})
			q.addEvent(model.ScoredImage{ID: "b", ImageURL: "http://img/b.jpg"})
			q.addEvent(model.ScoredImage{ID: "c", ImageURL: "http://img/c.jpg"})
			deliveries := sink.wait(t, 3)

			convey.Convey("Then every event should be delivered exactly once", func() {
				convey.So(deliveries, convey.ShouldHaveLength, 3)

				byID := map[string]delivery{}
				for _, d := range deliveries {
					byID[d.event.ID] = d
				}
				convey.So(byID["a"].enriched, convey.ShouldBeTrue)
				convey.So(byID["b"].enriched, convey.ShouldBeFalse)
				convey.So(byID["c"].enriched, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down a running worker", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			w := worker.NewEnrichWorker(q, fetcher, sink)
			go w.Run(ctx)

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then shutdown should complete cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		fetcher := newMockFetcher()
		sink := newMockSink()

		convey.Convey("When creating a pool with an explicit worker count", func() {
			p := worker.NewPool(3, q, fetcher, sink)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(p, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a pool with a non-positive count", func() {
			p := worker.NewPool(0, q, fetcher, sink)

			convey.Convey("Then it should fall back to a CPU-derived count", func() {
				convey.So(p, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the pool processes queued events", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			p := worker.NewPool(4, q, fetcher, sink)
			p.Start(ctx)

			const numEvents = 20
			for i := 0; i < numEvents; i++ {
				ok := q.Enqueue(ctx, model.ScoredImage{
					ID:       string(rune('a' + i)),
					ImageURL: "http://img/pool.jpg",
				})
				convey.So(ok, convey.ShouldBeTrue)
			}

			deliveries := sink.wait(t, numEvents)

			convey.Convey("Then every event should reach the sink", func() {
				convey.So(deliveries, convey.ShouldHaveLength, numEvents)
				for _, d := range deliveries {
					convey.So(d.enriched, convey.ShouldBeTrue)
				}
			})

			p.Stop()
		})

		convey.Convey("When stopping the pool twice", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			p := worker.NewPool(2, q, fetcher, sink)
			p.Start(ctx)

			convey.Convey("Then repeated stops should not panic", func() {
				convey.So(func() { p.Stop(); p.Stop() }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When shutting the pool down", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			p := worker.NewPool(2, q, fetcher, sink)
			p.Start(ctx)

			err := p.Shutdown(context.Background())

			convey.Convey("Then shutdown should complete cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}
