// Package feedsim is a stand-in for the upstream score gateway. It serves a
// websocket feed of generated scored-image events and a rotating /leaders
// snapshot, so the relay can be exercised without the real gateway.
package feedsim

import "time"

// Config holds configuration for the feed simulator.
type Config struct {
	Addr         string        // listen address for the simulated gateway
	EventPeriod  time.Duration // delay between generated score events
	PlayerCount  int           // number of simulated players
	ImageBaseURL string        // base URL events point their imageURL at
	BadImageRate float64       // fraction of events given an unreachable imageURL
	Verbose      bool          // enable verbose logging
}
