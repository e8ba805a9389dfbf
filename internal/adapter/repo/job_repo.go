package repo

import (
	"context"

	"scriptflow/internal/domain"
	"scriptflow/internal/infra"
	"scriptflow/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new script job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertScriptJob,
		job.ID,
		job.UserID,
		job.ArticleID,
		job.Status,
		job.GateDecision,
		job.IterationCount,
		job.RevisionCount,
		job.FinalScore,
		job.RevisionNotes,
		job.ErrorMessage,
	)
	return err
}

// ExistsForArticle reports whether any job already exists for the
// (user, article) pair, terminal or not.
func (r *JobRepositoryPG) ExistsForArticle(ctx context.Context, userID, articleID string) (bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QScriptJobExists, userID, articleID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectScriptJob, jobID)
	job, err := scanJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListByUser returns the user's most recent jobs.
func (r *JobRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListScriptJobs, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Update persists the mutable job columns.
func (r *JobRepositoryPG) Update(ctx context.Context, job *domain.Job) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateScriptJob,
		job.ID,
		job.Status,
		job.GateDecision,
		job.IterationCount,
		job.RevisionCount,
		job.FinalScore,
		job.RevisionNotes,
		job.ErrorMessage,
		job.ReviewedAt,
	)
	return err
}

// StatsForUser aggregates this user's job outcomes.
func (r *JobRepositoryPG) StatsForUser(ctx context.Context, userID string) (*domain.ScriptStats, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUserScriptStats, userID)
	var stats domain.ScriptStats
	if err := row.Scan(
		&stats.Total,
		&stats.Approved,
		&stats.NeedsReview,
		&stats.Rejected,
		&stats.AvgScore,
		&stats.Today,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.ArticleID,
		&job.Status,
		&job.GateDecision,
		&job.IterationCount,
		&job.RevisionCount,
		&job.FinalScore,
		&job.RevisionNotes,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.ReviewedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
