package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/repository"
	"github.com/suspectgrid/suspect-server-go/internal/session"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

// ResultLister reads recorded match outcomes.
type ResultLister interface {
	Recent(ctx context.Context, limit int) ([]repository.MatchResult, error)
}

// SetResults enables the /results endpoint.
func (h *Hub) SetResults(results ResultLister) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = results
}

func (h *Hub) resultLister() ResultLister {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.results
}

// serveSession lets a client check a code before joining.
func (h *Hub) serveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(r.PathValue("code"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: session.ErrSessionNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sess.Summary())
}

func (h *Hub) serveResults(w http.ResponseWriter, r *http.Request) {
	results := h.resultLister()
	if results == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: "match results are not recorded"})
		return
	}

	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxResultsLimit)
	}

	recent, err := results.Recent(r.Context(), limit)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to list match results", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "could not load match results"})
		return
	}
	if recent == nil {
		recent = []repository.MatchResult{}
	}
	writeJSON(w, http.StatusOK, recent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
