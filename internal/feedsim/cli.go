package feedsim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// ShowHelp prints usage information for the feed simulator.
func ShowHelp() {
	fmt.Println("Feed Simulator - stand-in score gateway for the moderation relay")
	fmt.Println()
	fmt.Println("Usage: feed-sim [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -addr string        Listen address (default \":1235\")")
	fmt.Println("  -period duration    Delay between generated events (default 1.5s)")
	fmt.Println("  -players int        Number of simulated players (default 16)")
	fmt.Println("  -images string      Base URL generated imageURLs point at")
	fmt.Println("  -bad float          Fraction of events with an unreachable imageURL")
	fmt.Println("  -verbose            Enable verbose logging")
	fmt.Println("  -help               Show this help")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET /dashboard      Websocket feed of scored-image events")
	fmt.Println("  GET /leaders        Rolling leaderboard snapshot")
}

// Run starts the simulator and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	srv := NewServer(cfg)
	mux := http.NewServeMux()
	srv.Register(mux)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go srv.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	srv.log.Info(ctx, "feed simulator listening", logger.String("addr", cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
