// Package registry tracks live push connections for one client pool.
package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Conn is the minimal outbound connection surface the registry needs.
// The websocket layer adapts *websocket.Conn to it; tests use fakes.
type Conn interface {
	// Send writes v to the peer as a JSON message.
	Send(v any) error

	// Open reports whether the connection can still accept writes.
	Open() bool
}

// Entry is a registered connection with its assigned identity.
type Entry struct {
	ID   string
	Conn Conn
}

// Hook observes pool membership changes. Hooks run after the structural
// change is complete and outside the registry lock.
type Hook func(ctx context.Context, e Entry)

// Registry is an ordered pool of live connections. Append order defines
// rotation order for Next. All structural changes and sends on the pool are
// serialized through one mutex, so a connection removed by Remove can never
// be handed out by a concurrent Next.
type Registry struct {
	mu      sync.Mutex
	role    string
	entries []Entry
	cursor  int

	onConnect    Hook
	onDisconnect Hook
	gauge        func(int)

	log logger.Logger
}

// New creates an empty registry for the named pool role.
func New(role string, opts ...Option) *Registry {
	r := &Registry{
		role:  role,
		gauge: func(int) {},
		log:   logger.Get().Named(role + "-pool"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers conn with a freshly assigned identity and returns its entry.
func (r *Registry) Add(ctx context.Context, conn Conn) Entry {
	e := Entry{ID: uuid.NewString(), Conn: conn}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	n := len(r.entries)
	r.mu.Unlock()

	r.gauge(n)
	r.log.Info(ctx, "client connected",
		logger.String("id", e.ID),
		logger.Int("pool", n),
	)
	if r.onConnect != nil {
		r.onConnect(ctx, e)
	}
	return e
}

// Remove drops the entry holding conn, identified by handle, and repairs the
// rotation cursor. Removing an unknown conn is a no-op.
func (r *Registry) Remove(ctx context.Context, conn Conn) {
	r.mu.Lock()
	idx := -1
	for i, e := range r.entries {
		if e.Conn == conn {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return
	}
	removed := r.entries[idx]
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)

	// Entries past the removed index shifted down one; keep the cursor on
	// the same logical successor, then wrap it into the new range.
	if idx < r.cursor {
		r.cursor--
	}
	if len(r.entries) == 0 {
		r.cursor = 0
	} else {
		r.cursor %= len(r.entries)
	}
	n := len(r.entries)
	r.mu.Unlock()

	r.gauge(n)
	r.log.Info(ctx, "client disconnected",
		logger.String("id", removed.ID),
		logger.Int("pool", n),
	)
	if r.onDisconnect != nil {
		r.onDisconnect(ctx, removed)
	}
}

// Entries returns a snapshot of the pool in rotation order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Next returns the entry under the rotation cursor and advances the cursor
// one position with wrap-around. ok is false when the pool is empty.
func (r *Registry) Next() (e Entry, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return Entry{}, false
	}
	e = r.entries[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.entries)
	return e, true
}

// Send writes v to the entry's connection if it is still open. Returns true
// when the message went out.
func (r *Registry) Send(ctx context.Context, e Entry, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.send(ctx, e, v)
}

// Broadcast writes v to every live entry whose connection is open and
// returns the number of deliveries. Closed-but-not-yet-removed entries are
// skipped, not dropped; removal happens only via Remove.
func (r *Registry) Broadcast(ctx context.Context, v any) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	sent := 0
	for _, e := range r.entries {
		if r.send(ctx, e, v) {
			sent++
		}
	}
	return sent
}

// send runs under r.mu so writes on a single pool never interleave.
func (r *Registry) send(ctx context.Context, e Entry, v any) bool {
	if !e.Conn.Open() {
		return false
	}
	if err := e.Conn.Send(v); err != nil {
		r.log.Debug(ctx, "send failed",
			logger.String("id", e.ID),
			logger.Error(err),
		)
		return false
	}
	return true
}
