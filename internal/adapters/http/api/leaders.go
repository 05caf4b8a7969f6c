// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
)

// LeadersDependencies defines the interface for leaderboard reads.
type LeadersDependencies interface {
	Leaders(ctx context.Context) model.LeaderboardSnapshot
}

// LeadersHandler handles leaderboard requests.
type LeadersHandler struct {
	deps LeadersDependencies
}

// NewLeadersHandler creates a new leaders handler.
func NewLeadersHandler(deps LeadersDependencies) *LeadersHandler {
	return &LeadersHandler{deps: deps}
}

// HandleGetLeaders handles GET /leaders requests.
func (h *LeadersHandler) HandleGetLeaders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Leaders(r.Context()))
}
