package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"scriptflow/internal/domain"
)

// Policy controls how terminal job outcomes are charged against the quota.
// Failed runs consume quota by default so an erroring article cannot be
// retried for free all day.
type Policy struct {
	ChargeFailedRuns bool
	CostPerRunUSD    float64
}

// Governor enforces per-user daily item quotas and monthly cost budgets.
// The daily counter rolls over lazily on the first read or write after a
// calendar-day boundary; there is no background timer.
type Governor struct {
	repo   domain.BudgetRepository
	policy Policy
	logger zerolog.Logger

	now func() time.Time
}

// NewGovernor creates a governor over the given budget store.
func NewGovernor(repo domain.BudgetRepository, policy Policy, logger zerolog.Logger) *Governor {
	return &Governor{
		repo:   repo,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// CheckAndReset returns the user's budget state, first zeroing the daily
// counter when the stored reset date is on an earlier calendar day.
func (g *Governor) CheckAndReset(ctx context.Context, userID string) (*domain.BudgetState, error) {
	state, err := g.repo.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure budget: %w", err)
	}

	now := g.now().UTC()
	if earlierCalendarDay(state.LastResetAt.UTC(), now) {
		if err := g.repo.ResetDaily(ctx, userID, now); err != nil {
			return nil, fmt.Errorf("reset daily counter: %w", err)
		}
		g.logger.Info().
			Str("user_id", userID).
			Int("items_dropped", state.ItemsToday).
			Msg("budget: daily counter reset")
		state.ItemsToday = 0
		state.LastResetAt = now
	}
	return state, nil
}

// CheckQuota reports whether the user may start another item. Returns
// domain.ErrQuotaExceeded or domain.ErrBudgetExceeded when a limit is hit.
func (g *Governor) CheckQuota(ctx context.Context, userID string) error {
	state, err := g.CheckAndReset(ctx, userID)
	if err != nil {
		return err
	}
	if state.DailyLimit > 0 && state.ItemsToday >= state.DailyLimit {
		return domain.ErrQuotaExceeded
	}
	if state.MonthlyLimit > 0 && state.MonthCost >= state.MonthlyLimit {
		return domain.ErrBudgetExceeded
	}
	return nil
}

// RecordOutcome charges exactly one terminal job outcome against the budget.
// Intermediate iterations must never reach here. When the policy exempts
// failed runs, a failure still bumps the failed counter but consumes no
// quota or cost.
func (g *Governor) RecordOutcome(ctx context.Context, userID string, passed bool) error {
	if _, err := g.CheckAndReset(ctx, userID); err != nil {
		return err
	}
	items, cost := 1, g.policy.CostPerRunUSD
	if !passed && !g.policy.ChargeFailedRuns {
		items, cost = 0, 0
	}
	if err := g.repo.RecordOutcome(ctx, userID, items, cost, passed); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

func earlierCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
