package feedsim

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

const defaultEventPeriod = 1500 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server is the simulated score gateway. It pushes generated events to every
// websocket subscriber on /dashboard and serves the rolling leaderboard on
// /leaders.
type Server struct {
	cfg  Config
	gen  *Generator
	log  logger.Logger
	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

// NewServer creates a feed simulator server.
func NewServer(cfg Config) *Server {
	if cfg.EventPeriod <= 0 {
		cfg.EventPeriod = defaultEventPeriod
	}
	return &Server{
		cfg:  cfg,
		gen:  NewGenerator(cfg),
		log:  logger.Named("feedsim"),
		subs: make(map[*websocket.Conn]struct{}),
	}
}

// Register installs the simulator's routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/leaders", s.handleLeaders)
}

// Run emits events at the configured period until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.EventPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.emit(ctx)
		}
	}
}

func (s *Server) emit(ctx context.Context) {
	ev := s.gen.Next()
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Error(ctx, "marshal event", logger.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.subs {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.subs, conn)
			s.log.Debug(ctx, "subscriber dropped", logger.Error(err))
		}
	}
	if s.cfg.Verbose {
		s.log.Info(ctx, "event emitted",
			logger.String("id", ev.ID),
			logger.Float64("score", ev.Score),
			logger.Int("subscribers", len(s.subs)))
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "upgrade failed", logger.Error(err))
		return
	}

	s.mu.Lock()
	s.subs[conn] = struct{}{}
	count := len(s.subs)
	s.mu.Unlock()
	s.log.Info(r.Context(), "subscriber connected", logger.Int("subscribers", count))

	// Drain reads so close frames are processed; emit() handles removal on
	// write failure.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				if _, ok := s.subs[conn]; ok {
					conn.Close()
					delete(s.subs, conn)
				}
				s.mu.Unlock()
				return
			}
		}
	}()
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.gen.Snapshot()); err != nil {
		s.log.Error(r.Context(), "encode snapshot", logger.Error(err))
	}
}
