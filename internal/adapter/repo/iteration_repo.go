package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"scriptflow/internal/domain"
	"scriptflow/internal/infra"
	"scriptflow/internal/sqlinline"
)

// IterationRepositoryPG implements domain.IterationRepository.
type IterationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewIterationRepository creates a new iteration repository backed by PostgreSQL.
func NewIterationRepository(sql infra.SQLExecutor) *IterationRepositoryPG {
	return &IterationRepositoryPG{sql: sql}
}

// Create inserts a draft-only iteration; the review is attached separately
// once evaluation completes.
func (r *IterationRepositoryPG) Create(ctx context.Context, it *domain.Iteration) error {
	scenes, err := json.Marshal(it.Scenes)
	if err != nil {
		return fmt.Errorf("marshal scenes: %w", err)
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertIteration, it.ID, it.JobID, it.Version, scenes)
	return err
}

// AttachReview stores the evaluation output on an existing iteration version.
func (r *IterationRepositoryPG) AttachReview(ctx context.Context, jobID string, version int, review *domain.Review) error {
	payload, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	_, err = r.sql.Exec(ctx, sqlinline.QAttachIterationReview, jobID, version, payload)
	return err
}

// ListByJob returns all iterations for a job ordered by version.
func (r *IterationRepositoryPG) ListByJob(ctx context.Context, jobID string) ([]domain.Iteration, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListIterations, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var iterations []domain.Iteration
	for rows.Next() {
		var (
			it        domain.Iteration
			scenesRaw []byte
			reviewRaw []byte
		)
		if err := rows.Scan(&it.ID, &it.JobID, &it.Version, &scenesRaw, &reviewRaw, &it.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scenesRaw, &it.Scenes); err != nil {
			return nil, fmt.Errorf("unmarshal scenes: %w", err)
		}
		if len(reviewRaw) > 0 {
			var review domain.Review
			if err := json.Unmarshal(reviewRaw, &review); err != nil {
				return nil, fmt.Errorf("unmarshal review: %w", err)
			}
			it.Review = &review
		}
		iterations = append(iterations, it)
	}
	return iterations, rows.Err()
}

var _ domain.IterationRepository = (*IterationRepositoryPG)(nil)
