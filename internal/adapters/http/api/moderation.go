// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kameshsampath/demo4-dashboard/internal/domain/model"
	"github.com/kameshsampath/demo4-dashboard/internal/domain/pending"
)

// ModerationDependencies defines the interface for moderation decisions.
type ModerationDependencies interface {
	Approve(ctx context.Context, id string) (model.ScoredImage, error)
	Reject(ctx context.Context, id string) error
}

// ModerationHandler handles approve/reject requests.
type ModerationHandler struct {
	deps ModerationDependencies
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(deps ModerationDependencies) *ModerationHandler {
	return &ModerationHandler{deps: deps}
}

// HandleApprove handles GET /images/approve/{id} requests. The resolved
// record is broadcast to dashboards by the dispatcher; the response is a
// plain-text acknowledgement either way, since resolving an unknown id is
// benign.
func (h *ModerationHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(w, r, "/images/approve/")
	if !ok {
		return
	}
	if _, err := h.deps.Approve(r.Context(), id); err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			writeText(w, http.StatusOK, "image already resolved or unknown")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeText(w, http.StatusOK, "approved")
}

// HandleReject handles GET /images/reject/{id} requests.
func (h *ModerationHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(w, r, "/images/reject/")
	if !ok {
		return
	}
	if err := h.deps.Reject(r.Context(), id); err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			writeText(w, http.StatusOK, "image already resolved or unknown")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeText(w, http.StatusOK, "rejected")
}

// imageID extracts the id path parameter, writing the error response itself
// when the request is unusable.
func imageID(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return "", false
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return "", false
	}
	return id, true
}
