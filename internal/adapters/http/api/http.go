// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the dispatcher implementation.
type Dependencies interface {
	// Leaders returns the current leaderboard snapshot.
	Leaders(ctx context.Context) model.LeaderboardSnapshot

	// Approve resolves a pending record; pending.ErrNotFound for unknown ids.
	Approve(ctx context.Context, id string) (model.ScoredImage, error)

	// Reject resolves a pending record; pending.ErrNotFound for unknown ids.
	Reject(ctx context.Context, id string) error

	// Storm relays the storm flag to all dashboards.
	Storm(ctx context.Context, on bool)
}

// Server wires HTTP routes for the relay API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	leadersHandler    *LeadersHandler
	moderationHandler *ModerationHandler
	stormHandler      *StormHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		leadersHandler:    NewLeadersHandler(deps),
		moderationHandler: NewModerationHandler(deps),
		stormHandler:      NewStormHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaders", MetricsMiddleware(s.leadersHandler.HandleGetLeaders, "leaders"))
	mux.HandleFunc("/images/approve/", MetricsMiddleware(s.moderationHandler.HandleApprove, "approve"))
	mux.HandleFunc("/images/reject/", MetricsMiddleware(s.moderationHandler.HandleReject, "reject"))
	mux.HandleFunc("/storm/", MetricsMiddleware(s.stormHandler.HandleStorm, "storm"))
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
