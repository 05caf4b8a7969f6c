// Package upstream consumes the score gateway's websocket feed.
package upstream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Reconnect backoff and keepalive timing.
const (
	defaultMinBackoff = time.Second
	defaultMaxBackoff = 30 * time.Second
	pingPeriod        = 30 * time.Second
	pongWait          = 40 * time.Second
	writeWait         = 10 * time.Second
)

// Handler receives one raw feed payload. Implementations must not retain
// the slice past the call.
type Handler func(ctx context.Context, payload []byte)

// Stream is a reconnecting websocket client for the inbound score feed.
// Malformed or unwanted payloads are the handler's concern; the stream only
// moves bytes.
type Stream struct {
	url     string
	handler Handler
	dialer  *websocket.Dialer

	minBackoff time.Duration
	maxBackoff time.Duration

	log logger.Logger
}

// New creates a stream for url delivering payloads to handler.
func New(url string, handler Handler, opts ...Option) *Stream {
	s := &Stream{
		url:        url,
		handler:    handler,
		dialer:     websocket.DefaultDialer,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
		log:        logger.Get().Named("scorestream"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run connects and consumes the feed until ctx is canceled, reconnecting
// with capped exponential backoff whenever the connection drops.
func (s *Stream) Run(ctx context.Context) {
	backoff := s.minBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			s.log.Warn(ctx, "feed dial failed; retrying",
				logger.String("url", s.url),
				logger.Any("backoff", backoff.String()),
				logger.Error(err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, s.maxBackoff)
			continue
		}

		s.log.Info(ctx, "feed connected", logger.String("url", s.url))
		backoff = s.minBackoff

		s.consume(ctx, conn)
		_ = conn.Close()

		s.log.Warn(ctx, "feed disconnected; reconnecting", logger.String("url", s.url))
	}
}

// consume reads messages off one connection until it fails or ctx ends.
func (s *Stream) consume(ctx context.Context, conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)

	// Keepalive: ping the gateway so half-dead connections are detected
	// instead of silently starving the pipeline.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if len(payload) == 0 {
			continue
		}
		s.handler(ctx, payload)
	}
}
