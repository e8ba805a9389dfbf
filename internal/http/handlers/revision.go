package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"scriptflow/internal/domain"
)

type revisionRequest struct {
	Feedback string `json:"feedback"`
	Scenes   []int  `json:"scenes,omitempty"`
}

// RevisionRequest reopens a parked job with reviewer feedback. The corrective
// pass outcome arrives on the progress stream, never in this response.
func (a *App) RevisionRequest(w http.ResponseWriter, r *http.Request) {
	var req revisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Feedback) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "feedback required")
		return
	}

	jobID := chi.URLParam(r, "job_id")
	err := a.Revision.Request(r.Context(), jobID, req.Feedback, req.Scenes)
	switch {
	case err == nil:
		a.json(w, http.StatusAccepted, map[string]any{"accepted": true})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "script job not found")
	case errors.Is(err, domain.ErrMaxRevisionsReached):
		a.error(w, http.StatusTooManyRequests, "max_revisions_reached", "revision limit reached, job rejected")
	case errors.Is(err, domain.ErrInvalidStatus):
		a.error(w, http.StatusConflict, "invalid_status", err.Error())
	default:
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("revision request failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to request revision")
	}
}

// RevisionReset clears revision state so a stuck job can re-enter the loop.
func (a *App) RevisionReset(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	err := a.Revision.Reset(r.Context(), jobID)
	switch {
	case err == nil:
		a.json(w, http.StatusOK, map[string]any{"reset": true})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "script job not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		a.error(w, http.StatusConflict, "not_stuck", "job is not stuck in review")
	default:
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("revision reset failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to reset revision")
	}
}
