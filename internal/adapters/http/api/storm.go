// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// Storm acknowledgement messages, kept verbatim from the dashboard UI copy.
const (
	stormStartMessage   = "Let it pour."
	stormStopMessage    = "The dark clouds part.  A cool refreshing wind blows through."
	stormUnknownMessage = "incorrect storm action"
)

// StormDependencies defines the interface for storm control.
type StormDependencies interface {
	Storm(ctx context.Context, on bool)
}

// StormHandler handles storm control requests.
type StormHandler struct {
	deps StormDependencies
}

// NewStormHandler creates a new storm handler.
func NewStormHandler(deps StormDependencies) *StormHandler {
	return &StormHandler{deps: deps}
}

// HandleStorm handles GET /storm/{start|stop} requests. An unknown action
// has no side effect.
func (h *StormHandler) HandleStorm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/storm/")
	switch action {
	case "start":
		h.deps.Storm(r.Context(), true)
		writeJSON(w, http.StatusOK, messageResponse{Message: stormStartMessage})
	case "stop":
		h.deps.Storm(r.Context(), false)
		writeJSON(w, http.StatusOK, messageResponse{Message: stormStopMessage})
	default:
		writeJSON(w, http.StatusOK, messageResponse{Message: stormUnknownMessage})
	}
}
