package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"scriptflow/internal/budget"
	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
	"scriptflow/internal/providers/draft"
	"scriptflow/internal/providers/review"
	"scriptflow/internal/push"
)

// Result summarises one article's trip through the iteration loop.
type Result struct {
	OK    bool
	JobID string
	Score int
	Err   error
}

// Service drives script generation: it owns the iterate-evaluate loop and the
// batch runner around it. One Service instance is shared by all users; per-user
// concurrency is arbitrated by the run registry.
type Service struct {
	jobs      domain.JobRepository
	iters     domain.IterationRepository
	articles  domain.ArticleRepository
	drafter   draft.Drafter
	evaluator review.Evaluator
	governor  *budget.Governor
	hub       *push.Hub
	runs      *Registry
	logger    zerolog.Logger
	defaults  jsoncfg.GenerationSettings
}

// NewService wires the orchestrator. defaults fills in unset generation
// settings on every request.
func NewService(
	jobs domain.JobRepository,
	iters domain.IterationRepository,
	articles domain.ArticleRepository,
	drafter draft.Drafter,
	evaluator review.Evaluator,
	governor *budget.Governor,
	hub *push.Hub,
	logger zerolog.Logger,
	defaults jsoncfg.GenerationSettings,
) *Service {
	defaults.Normalize()
	return &Service{
		jobs:      jobs,
		iters:     iters,
		articles:  articles,
		drafter:   drafter,
		evaluator: evaluator,
		governor:  governor,
		hub:       hub,
		runs:      NewRegistry(),
		logger:    logger.With().Str("component", "pipeline").Logger(),
		defaults:  defaults,
	}
}

// BatchRequest starts generation for a set of articles owned by one user.
type BatchRequest struct {
	UserID     string
	ArticleIDs []string
	Settings   jsoncfg.GenerationSettings
}

// StartBatch validates the request, reserves the user's run slot and launches
// the batch goroutine. Validation failures surface synchronously; per-article
// outcomes arrive over the push channel.
func (s *Service) StartBatch(ctx context.Context, req BatchRequest) error {
	if len(req.ArticleIDs) == 0 {
		return domain.ErrNoItems
	}
	settings := req.Settings
	settings.ApplyDefaults(s.defaults)
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.governor.CheckQuota(ctx, req.UserID); err != nil {
		return err
	}

	// The run outlives the HTTP request, so it gets a fresh root context.
	runCtx, err := s.runs.Begin(context.Background(), req.UserID)
	if err != nil {
		return err
	}
	go s.runBatch(runCtx, req.UserID, req.ArticleIDs, settings)
	return nil
}

// StopBatch requests cooperative cancellation of the user's active batch.
func (s *Service) StopBatch(userID string) error {
	return s.runs.Stop(userID)
}

// Running reports whether the user has a batch in flight.
func (s *Service) Running(userID string) bool {
	return s.runs.Running(userID)
}

// emit publishes an event to the user channel and, when the event belongs to
// a job, to the job channel as well.
func (s *Service) emit(userID, jobID string, t push.EventType, payload map[string]any) {
	ev := push.NewEvent(t, jobID, payload)
	s.hub.Publish(userID, ev)
	if jobID != "" {
		s.hub.Publish(jobID, ev)
	}
}

// closeJobChannel delivers a final event to job subscribers and tears the
// job key down. Only truly terminal outcomes close the channel; jobs parked
// in review keep their subscribers.
func (s *Service) closeJobChannel(jobID string, t push.EventType, payload map[string]any) {
	s.hub.CloseKey(jobID, push.NewEvent(t, jobID, payload))
}

// publishStats pushes a fresh aggregate snapshot to the user channel.
func (s *Service) publishStats(ctx context.Context, userID string) {
	stats, err := s.jobs.StatsForUser(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("stats snapshot failed")
		return
	}
	s.emit(userID, "", push.EventStats, map[string]any{
		"total":        stats.Total,
		"approved":     stats.Approved,
		"needs_review": stats.NeedsReview,
		"rejected":     stats.Rejected,
		"avg_score":    stats.AvgScore,
		"today":        stats.Today,
	})
}

// Snapshot builds the initial event delivered to a new progress subscriber.
func (s *Service) Snapshot(ctx context.Context, userID string) push.Event {
	return push.NewEvent(push.EventRunningState, "", map[string]any{
		"running": s.runs.Running(userID),
	})
}
