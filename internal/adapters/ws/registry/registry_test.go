package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	registry "github.com/kameshsampath/demo4-dashboard/internal/adapters/ws/registry"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeConn is a test double recording every payload sent to it.
type fakeConn struct {
	mu     sync.Mutex
	sent   []any
	open   bool
	sendFn func(v any) error
}

func newFakeConn() *fakeConn {
	return &fakeConn{open: true}
}

func (c *fakeConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendFn != nil {
		return c.sendFn(v)
	}
	c.sent = append(c.sent, v)
	return nil
}

func (c *fakeConn) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *fakeConn) received() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.sent))
	copy(out, c.sent)
	return out
}

func TestRegistryMembership(t *testing.T) {
	_ = logger.Init()

	Convey("Given an empty registry", t, func() {
		r := registry.New("moderator")
		ctx := context.Background()

		Convey("When no connections are registered", func() {
			Convey("Then it should be empty", func() {
				So(r.Len(), ShouldEqual, 0)
				So(r.Entries(), ShouldBeEmpty)
			})

			Convey("Then Next should report no entry", func() {
				_, ok := r.Next()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When adding connections", func() {
			c1 := newFakeConn()
			c2 := newFakeConn()
			e1 := r.Add(ctx, c1)
			e2 := r.Add(ctx, c2)

			Convey("Then each entry should get a distinct identity", func() {
				So(e1.ID, ShouldNotBeEmpty)
				So(e2.ID, ShouldNotBeEmpty)
				So(e1.ID, ShouldNotEqual, e2.ID)
				So(r.Len(), ShouldEqual, 2)
			})

			Convey("Then entries should be in arrival order", func() {
				entries := r.Entries()
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ID, ShouldEqual, e1.ID)
				So(entries[1].ID, ShouldEqual, e2.ID)
			})
		})

		Convey("When removing a connection", func() {
			c1 := newFakeConn()
			c2 := newFakeConn()
			e1 := r.Add(ctx, c1)
			e2 := r.Add(ctx, c2)
			_ = e1

			r.Remove(ctx, c1)

			Convey("Then only the other entry should remain", func() {
				So(r.Len(), ShouldEqual, 1)
				So(r.Entries()[0].ID, ShouldEqual, e2.ID)
			})

			Convey("And removing it again should be a no-op", func() {
				So(func() { r.Remove(ctx, c1) }, ShouldNotPanic)
				So(r.Len(), ShouldEqual, 1)
			})
		})

		Convey("When membership hooks are registered", func() {
			var connected, disconnected []registry.Entry
			hooked := registry.New("moderator",
				registry.WithConnectHook(func(_ context.Context, e registry.Entry) {
					connected = append(connected, e)
				}),
				registry.WithDisconnectHook(func(_ context.Context, e registry.Entry) {
					disconnected = append(disconnected, e)
				}),
			)

			c := newFakeConn()
			e := hooked.Add(ctx, c)
			hooked.Remove(ctx, c)

			Convey("Then both hooks should observe the entry", func() {
				So(connected, ShouldHaveLength, 1)
				So(connected[0].ID, ShouldEqual, e.ID)
				So(disconnected, ShouldHaveLength, 1)
				So(disconnected[0].ID, ShouldEqual, e.ID)
			})
		})

		Convey("When a gauge is registered", func() {
			var sizes []int
			gauged := registry.New("dashboard",
				registry.WithGauge(func(size int) { sizes = append(sizes, size) }),
			)

			c := newFakeConn()
			gauged.Add(ctx, c)
			gauged.Remove(ctx, c)

			Convey("Then it should see the size after each change", func() {
				So(sizes, ShouldResemble, []int{1, 0})
			})
		})
	})
}

func TestRegistryRotation(t *testing.T) {
	_ = logger.Init()

	Convey("Given a registry with three connections", t, func() {
		r := registry.New("moderator")
		ctx := context.Background()

		c1 := newFakeConn()
		c2 := newFakeConn()
		c3 := newFakeConn()
		e1 := r.Add(ctx, c1)
		e2 := r.Add(ctx, c2)
		e3 := r.Add(ctx, c3)

		Convey("When cycling through Next", func() {
			var got []string
			for i := 0; i < 6; i++ {
				e, ok := r.Next()
				So(ok, ShouldBeTrue)
				got = append(got, e.ID)
			}

			Convey("Then rotation should be fair and wrap around", func() {
				So(got, ShouldResemble, []string{e1.ID, e2.ID, e3.ID, e1.ID, e2.ID, e3.ID})
			})
		})

		Convey("When removing an entry before the cursor", func() {
			// Advance cursor past c1 and c2.
			r.Next()
			r.Next()

			r.Remove(ctx, c1)

			Convey("Then the cursor should stay on its logical successor", func() {
				e, ok := r.Next()
				So(ok, ShouldBeTrue)
				So(e.ID, ShouldEqual, e3.ID)

				e, ok = r.Next()
				So(ok, ShouldBeTrue)
				So(e.ID, ShouldEqual, e2.ID)
			})
		})

		Convey("When removing the entry under the cursor at the tail", func() {
			// Cursor now points at c3.
			r.Next()
			r.Next()

			r.Remove(ctx, c3)

			Convey("Then the cursor should wrap into range", func() {
				e, ok := r.Next()
				So(ok, ShouldBeTrue)
				So(e.ID, ShouldEqual, e1.ID)
			})
		})

		Convey("When removing every entry", func() {
			r.Remove(ctx, c1)
			r.Remove(ctx, c2)
			r.Remove(ctx, c3)

			Convey("Then Next should report no entry", func() {
				_, ok := r.Next()
				So(ok, ShouldBeFalse)
			})

			Convey("And adding a connection should restart rotation", func() {
				c4 := newFakeConn()
				e4 := r.Add(ctx, c4)
				e, ok := r.Next()
				So(ok, ShouldBeTrue)
				So(e.ID, ShouldEqual, e4.ID)
			})
		})
	})
}

func TestRegistryDelivery(t *testing.T) {
	_ = logger.Init()

	Convey("Given a registry with mixed connections", t, func() {
		r := registry.New("dashboard")
		ctx := context.Background()

		healthy := newFakeConn()
		closed := newFakeConn()
		failing := newFakeConn()
		failing.sendFn = func(any) error { return errors.New("broken pipe") }

		he := r.Add(ctx, healthy)
		r.Add(ctx, closed)
		fe := r.Add(ctx, failing)
		closed.close()

		Convey("When sending to a single entry", func() {
			ok := r.Send(ctx, he, "payload")

			Convey("Then the healthy connection should receive it", func() {
				So(ok, ShouldBeTrue)
				So(healthy.received(), ShouldResemble, []any{"payload"})
			})
		})

		Convey("When sending to a failing entry", func() {
			ok := r.Send(ctx, fe, "payload")

			Convey("Then delivery should be reported as failed", func() {
				So(ok, ShouldBeFalse)
			})

			Convey("And the entry should stay in the pool", func() {
				So(r.Len(), ShouldEqual, 3)
			})
		})

		Convey("When broadcasting", func() {
			sent := r.Broadcast(ctx, "storm")

			Convey("Then only open, working connections should count", func() {
				So(sent, ShouldEqual, 1)
				So(healthy.received(), ShouldResemble, []any{"storm"})
				So(closed.received(), ShouldBeEmpty)
			})
		})
	})
}

func TestRegistryConcurrency(t *testing.T) {
	_ = logger.Init()

	Convey("Given a registry under concurrent churn", t, func() {
		r := registry.New("moderator")
		ctx := context.Background()
		const numGoroutines = 8
		const cyclesPerGoroutine = 50

		Convey("When goroutines add, rotate, broadcast and remove concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < cyclesPerGoroutine; j++ {
						c := newFakeConn()
						r.Add(ctx, c)
						r.Next()
						r.Broadcast(ctx, j)
						r.Remove(ctx, c)
					}
				}()
			}
			wg.Wait()

			Convey("Then the pool should drain back to empty", func() {
				So(r.Len(), ShouldEqual, 0)
				_, ok := r.Next()
				So(ok, ShouldBeFalse)
			})
		})
	})
}
