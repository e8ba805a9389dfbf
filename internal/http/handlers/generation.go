package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
	"scriptflow/internal/pipeline"
)

type batchRequest struct {
	ArticleIDs []string                   `json:"article_ids"`
	Settings   jsoncfg.GenerationSettings `json:"settings"`
}

// BatchStart accepts a generation batch. Acceptance is synchronous; progress
// and per-item outcomes arrive on the progress stream.
func (a *App) BatchStart(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	userID := a.currentUserID(r)
	err := a.Pipeline.StartBatch(r.Context(), pipeline.BatchRequest{
		UserID:     userID,
		ArticleIDs: req.ArticleIDs,
		Settings:   req.Settings,
	})
	switch {
	case err == nil:
		a.json(w, http.StatusAccepted, map[string]any{
			"accepted": true,
			"items":    len(req.ArticleIDs),
		})
	case errors.Is(err, domain.ErrNoItems):
		a.error(w, http.StatusBadRequest, "no_items", "article_ids must not be empty")
	case errors.Is(err, domain.ErrAlreadyRunning):
		a.error(w, http.StatusConflict, "already_running", "a batch is already running for this subject")
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, http.StatusTooManyRequests, "daily_limit_reached", "daily item limit reached")
	case errors.Is(err, domain.ErrBudgetExceeded):
		a.error(w, http.StatusTooManyRequests, "budget_limit_reached", "monthly budget limit reached")
	default:
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("batch start failed")
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}

// BatchStop requests cooperative cancellation of the running batch.
func (a *App) BatchStop(w http.ResponseWriter, r *http.Request) {
	err := a.Pipeline.StopBatch(a.currentUserID(r))
	switch {
	case err == nil:
		a.json(w, http.StatusOK, map[string]any{"stopping": true})
	case errors.Is(err, domain.ErrNotRunning):
		a.error(w, http.StatusConflict, "not_running", "no batch is running for this subject")
	default:
		a.error(w, http.StatusInternalServerError, "internal", "failed to stop batch")
	}
}
