package handlers

import (
	"net/http"
)

// StatsSummary returns the subject's aggregate job outcomes plus the live
// running state.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	stats, err := a.Jobs.StatsForUser(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total":        stats.Total,
		"approved":     stats.Approved,
		"needs_review": stats.NeedsReview,
		"rejected":     stats.Rejected,
		"avg_score":    stats.AvgScore,
		"today":        stats.Today,
		"running":      a.Pipeline.Running(userID),
	})
}
