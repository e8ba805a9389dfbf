package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"scriptflow/internal/domain"
	"scriptflow/internal/middleware"
	"scriptflow/internal/pipeline"
	"scriptflow/internal/push"
)

// PipelineService is the orchestrator surface the handlers need.
type PipelineService interface {
	StartBatch(ctx context.Context, req pipeline.BatchRequest) error
	StopBatch(userID string) error
	Running(userID string) bool
	Snapshot(ctx context.Context, userID string) push.Event
}

// RevisionService reopens parked jobs.
type RevisionService interface {
	Request(ctx context.Context, jobID, feedback string, scenes []int) error
	Reset(ctx context.Context, jobID string) error
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Pipeline   PipelineService
	Revision   RevisionService
	Hub        *push.Hub
	Jobs       domain.JobRepository
	Iterations domain.IterationRepository
	DB         Pinger
	Logger     zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
