package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scriptflow/internal/domain"
)

const defaultScriptListLimit = 50

func jobDTO(job *domain.Job) map[string]any {
	return map[string]any{
		"id":              job.ID,
		"article_id":      job.ArticleID,
		"status":          string(job.Status),
		"gate_decision":   string(job.GateDecision),
		"iteration_count": job.IterationCount,
		"revision_count":  job.RevisionCount,
		"final_score":     job.FinalScore,
		"revision_notes":  job.RevisionNotes,
		"error_message":   job.ErrorMessage,
		"created_at":      job.CreatedAt,
		"updated_at":      job.UpdatedAt,
		"reviewed_at":     job.ReviewedAt,
	}
}

// ScriptsList returns the subject's jobs, newest first.
func (a *App) ScriptsList(w http.ResponseWriter, r *http.Request) {
	limit := defaultScriptListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	jobs, err := a.Jobs.ListByUser(r.Context(), a.currentUserID(r), limit)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load scripts")
		return
	}
	items := make([]map[string]any, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobDTO(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ScriptsGet returns one job with its full iteration history.
func (a *App) ScriptsGet(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "script job not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load script")
		return
	}
	if job.UserID != a.currentUserID(r) {
		a.error(w, http.StatusNotFound, "not_found", "script job not found")
		return
	}

	iterations, err := a.Iterations.ListByJob(r.Context(), jobID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load iterations")
		return
	}
	history := make([]map[string]any, 0, len(iterations))
	for _, it := range iterations {
		history = append(history, map[string]any{
			"version":    it.Version,
			"scenes":     it.Scenes,
			"review":     it.Review,
			"created_at": it.CreatedAt,
		})
	}

	dto := jobDTO(job)
	dto["iterations"] = history
	a.json(w, http.StatusOK, dto)
}
