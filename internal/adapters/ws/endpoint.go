package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kameshsampath/demo4-dashboard/internal/adapters/ws/registry"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// upgrader accepts any origin; the relay does not authenticate clients.
var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals // shared stateless upgrader
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Endpoint returns an HTTP handler that upgrades the request and hands the
// connection to pool for its connected lifetime. The read loop only watches
// for the peer going away; these pools are push-only.
func Endpoint(pool *registry.Registry) http.HandlerFunc {
	log := logger.Get().Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn(r.Context(), "upgrade failed", logger.Error(err))
			return
		}

		client := NewClient(conn)
		ctx := r.Context()
		pool.Add(ctx, client)

		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		// Keepalive pings until the client is gone.
		stop := make(chan struct{})
		go func() {
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					if err := client.ping(); err != nil {
						client.shut()
						return
					}
				}
			}
		}()

		// Block on reads to observe the disconnect. Inbound payloads are
		// ignored; moderation decisions arrive over the HTTP surface.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		close(stop)
		client.shut()
		pool.Remove(ctx, client)
	}
}
