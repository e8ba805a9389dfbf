package pipeline

import (
	"context"
	"errors"

	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
	"scriptflow/internal/push"
)

// runBatch processes the user's articles strictly in order, one at a time.
// Agent rate limits and the budget counters both assume serial processing.
func (s *Service) runBatch(ctx context.Context, userID string, articleIDs []string, settings jsoncfg.GenerationSettings) {
	// Terminal bookkeeping must survive cancellation of the run context.
	base := context.WithoutCancel(ctx)
	defer func() {
		s.runs.Finish(userID)
		s.emit(userID, "", push.EventRunningState, map[string]any{"running": false})
		s.publishStats(base, userID)
	}()

	s.emit(userID, "", push.EventRunningState, map[string]any{
		"running": true,
		"items":   len(articleIDs),
	})

	for _, articleID := range articleIDs {
		if ctx.Err() != nil {
			s.logger.Info().Str("user_id", userID).Msg("batch cancelled")
			return
		}
		if err := s.governor.CheckQuota(base, userID); err != nil {
			if errors.Is(err, domain.ErrQuotaExceeded) || errors.Is(err, domain.ErrBudgetExceeded) {
				s.emit(userID, "", push.EventLimitReached, map[string]any{"reason": err.Error()})
				s.logger.Info().Str("user_id", userID).Err(err).Msg("batch stopped at quota")
			} else {
				s.logger.Error().Str("user_id", userID).Err(err).Msg("quota check failed, stopping batch")
			}
			return
		}

		res := s.RunSingle(ctx, userID, articleID, settings)
		if res.Err != nil {
			// A failed item never aborts the batch.
			s.logger.Warn().
				Str("user_id", userID).
				Str("article_id", articleID).
				Str("job_id", res.JobID).
				Err(res.Err).
				Msg("batch item failed")
			continue
		}
		s.logger.Info().
			Str("user_id", userID).
			Str("job_id", res.JobID).
			Int("final_score", res.Score).
			Msg("batch item approved")
	}
}
