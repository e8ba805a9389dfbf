package repo

import (
	"context"
	"time"

	"scriptflow/internal/domain"
	"scriptflow/internal/infra"
	"scriptflow/internal/sqlinline"
)

// BudgetRepositoryPG implements domain.BudgetRepository.
type BudgetRepositoryPG struct {
	sql infra.SQLExecutor

	// Defaults applied when a budget row is created for a user seen for
	// the first time.
	defaultDailyLimit   int
	defaultMonthlyLimit float64
}

// NewBudgetRepository creates a new budget repository backed by PostgreSQL.
func NewBudgetRepository(sql infra.SQLExecutor, dailyLimit int, monthlyLimit float64) *BudgetRepositoryPG {
	return &BudgetRepositoryPG{
		sql:                 sql,
		defaultDailyLimit:   dailyLimit,
		defaultMonthlyLimit: monthlyLimit,
	}
}

// Ensure returns the user's budget row, creating it with defaults when absent.
func (r *BudgetRepositoryPG) Ensure(ctx context.Context, userID string) (*domain.BudgetState, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QEnsureUserBudget, userID, r.defaultDailyLimit, r.defaultMonthlyLimit)
	var state domain.BudgetState
	if err := row.Scan(
		&state.UserID,
		&state.ItemsToday,
		&state.DailyLimit,
		&state.MonthCost,
		&state.MonthlyLimit,
		&state.PassedCount,
		&state.FailedCount,
		&state.LastResetAt,
		&state.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &state, nil
}

// ResetDaily zeroes the daily counter and stamps the rollover date.
func (r *BudgetRepositoryPG) ResetDaily(ctx context.Context, userID string, at time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QResetDailyBudget, userID, at)
	return err
}

// RecordOutcome applies one terminal job outcome atomically.
func (r *BudgetRepositoryPG) RecordOutcome(ctx context.Context, userID string, items int, cost float64, passed bool) error {
	_, err := r.sql.Exec(ctx, sqlinline.QRecordBudgetOutcome, userID, items, cost, passed)
	return err
}

var _ domain.BudgetRepository = (*BudgetRepositoryPG)(nil)
