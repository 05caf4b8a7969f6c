package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kameshsampath/demo4-dashboard/internal/feedsim"
	"github.com/kameshsampath/demo4-dashboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr        = ":1235"
	defaultEventPeriod = 1500 * time.Millisecond
	defaultPlayers     = 16
	defaultImageBase   = "https://picsum.photos/seed"
)

func main() {
	var (
		addr    = flag.String("addr", defaultAddr, "Listen address")
		period  = flag.Duration("period", defaultEventPeriod, "Delay between generated events")
		players = flag.Int("players", defaultPlayers, "Number of simulated players")
		images  = flag.String("images", defaultImageBase, "Base URL generated imageURLs point at")
		bad     = flag.Float64("bad", 0, "Fraction of events with an unreachable imageURL")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		feedsim.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := feedsim.Config{
		Addr:         *addr,
		EventPeriod:  *period,
		PlayerCount:  *players,
		ImageBaseURL: *images,
		BadImageRate: *bad,
		Verbose:      *verbose,
	}

	if err := feedsim.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("feed simulator failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
