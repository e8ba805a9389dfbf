package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for script jobs.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	ExistsForArticle(ctx context.Context, userID, articleID string) (bool, error)
	GetByID(ctx context.Context, jobID string) (*Job, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	StatsForUser(ctx context.Context, userID string) (*ScriptStats, error)
}

// IterationRepository persists draft+review passes within a job.
type IterationRepository interface {
	Create(ctx context.Context, it *Iteration) error
	AttachReview(ctx context.Context, jobID string, version int, review *Review) error
	ListByJob(ctx context.Context, jobID string) ([]Iteration, error)
}

// BudgetRepository persists per-user budget state.
type BudgetRepository interface {
	// Ensure returns the user's budget row, creating it with configured
	// defaults when absent.
	Ensure(ctx context.Context, userID string) (*BudgetState, error)
	ResetDaily(ctx context.Context, userID string, at time.Time) error
	// RecordOutcome applies one terminal job outcome: items/cost charge plus
	// the passed or failed counter.
	RecordOutcome(ctx context.Context, userID string, items int, cost float64, passed bool) error
}

// ArticleRepository provides candidate source items.
type ArticleRepository interface {
	GetByID(ctx context.Context, articleID string) (*Article, error)
}
