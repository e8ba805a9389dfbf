package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
	"scriptflow/internal/providers/draft"
	"scriptflow/internal/providers/review"
	"scriptflow/internal/push"
)

// corrective is human reviewer context seeding a revision pass. It replaces
// the prior automatic review as drafting input.
type corrective struct {
	feedback string
	scenes   []int
}

// RunSingle generates a script for one article. Job creation is idempotent
// per (user, article): a pre-existing job means a Duplicate error and no new
// job, no quota consumed.
func (s *Service) RunSingle(ctx context.Context, userID, articleID string, settings jsoncfg.GenerationSettings) Result {
	exists, err := s.jobs.ExistsForArticle(ctx, userID, articleID)
	if err != nil {
		return Result{Err: fmt.Errorf("job lookup: %w", err)}
	}
	if exists {
		return Result{Err: domain.ErrDuplicateJob}
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return Result{Err: fmt.Errorf("article %s: %w", articleID, err)}
	}

	job := &domain.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		ArticleID: articleID,
		Status:    domain.JobStatusPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return Result{Err: fmt.Errorf("create job: %w", err)}
	}

	return s.runIterations(ctx, job, article, settings, corrective{})
}

// RunRevisionPass runs exactly one corrective iteration for a reopened job,
// seeded with human feedback instead of a prior review.
func (s *Service) RunRevisionPass(ctx context.Context, job *domain.Job, feedback string, scenes []int) Result {
	article, err := s.articles.GetByID(ctx, job.ArticleID)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("article %s: %w", job.ArticleID, err))
	}
	settings := s.defaults
	settings.MaxIterations = 1
	return s.runIterations(ctx, job, article, settings, corrective{feedback: feedback, scenes: scenes})
}

// runIterations is the draft/evaluate state machine. Each pass drafts,
// persists the iteration, evaluates, persists the review, then decides:
// accept, hand to a human, or feed the review back into the next draft.
// Cancellation is observed only at the top of the loop.
func (s *Service) runIterations(ctx context.Context, job *domain.Job, article *domain.Article, settings jsoncfg.GenerationSettings, corr corrective) Result {
	// Persistence and budget writes outlive a cancelled run context.
	base := context.WithoutCancel(ctx)

	job.Status = domain.JobStatusIterating
	job.ErrorMessage = ""
	if err := s.jobs.Update(base, job); err != nil {
		return Result{JobID: job.ID, Err: fmt.Errorf("update job: %w", err)}
	}

	var prior *domain.Review
	for pass := 1; pass <= settings.MaxIterations; pass++ {
		if ctx.Err() != nil {
			return s.interruptJob(base, job)
		}

		// Versions continue across revision passes, never restart.
		version := job.IterationCount + 1
		s.emit(job.UserID, job.ID, push.EventDraftStarted, map[string]any{"version": version})

		dr, err := s.drafter.Draft(ctx, draft.Request{
			Article:        *article,
			Settings:       settings,
			Iteration:      version,
			PriorReview:    prior,
			Feedback:       corr.feedback,
			FeedbackScenes: corr.scenes,
			OnThinking: func(chunk string) {
				s.emit(job.UserID, job.ID, push.EventDraftThinking, map[string]any{"version": version, "text": chunk})
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return s.interruptJob(base, job)
			}
			return s.failJob(base, job, err)
		}

		it := &domain.Iteration{
			ID:      uuid.NewString(),
			JobID:   job.ID,
			Version: version,
			Scenes:  dr.Scenes,
		}
		if err := s.iters.Create(base, it); err != nil {
			return s.failJob(base, job, fmt.Errorf("persist iteration %d: %w", version, err))
		}
		job.IterationCount = version
		if err := s.jobs.Update(base, job); err != nil {
			return s.failJob(base, job, fmt.Errorf("update job: %w", err))
		}
		s.emit(job.UserID, job.ID, push.EventDraftCompleted, map[string]any{
			"version":          version,
			"scenes":           len(dr.Scenes),
			"total_duration_s": dr.TotalDuration,
		})

		s.emit(job.UserID, job.ID, push.EventEvaluationStarted, map[string]any{"version": version})
		rv, err := s.evaluator.Evaluate(ctx, review.Request{
			Article:  *article,
			Draft:    *dr,
			Settings: settings,
			OnThinking: func(chunk string) {
				s.emit(job.UserID, job.ID, push.EventEvaluationThinking, map[string]any{"version": version, "text": chunk})
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return s.interruptJob(base, job)
			}
			return s.failJob(base, job, err)
		}
		if err := s.iters.AttachReview(base, job.ID, version, rv); err != nil {
			return s.failJob(base, job, fmt.Errorf("persist review %d: %w", version, err))
		}

		score := domain.NormalizeScore(rv.Score)
		s.emit(job.UserID, job.ID, push.EventEvaluationCompleted, map[string]any{
			"version":     version,
			"score":       rv.Score,
			"final_score": score,
			"verdict":     string(rv.Verdict),
		})

		byVerdict := rv.Verdict == domain.VerdictApproved
		byScore := rv.Score >= settings.ApprovalThreshold
		if byVerdict != byScore {
			s.logger.Warn().
				Str("job_id", job.ID).
				Int("version", version).
				Float64("score", rv.Score).
				Float64("threshold", settings.ApprovalThreshold).
				Str("verdict", string(rv.Verdict)).
				Msg("verdict and score disagree, either accepts")
		}
		if byVerdict || byScore {
			return s.completeJob(base, job, rv, score, domain.JobStatusApproved, "")
		}
		if rv.Verdict == domain.VerdictRejected {
			res := s.completeJob(base, job, rv, score, domain.JobStatusNeedsReview, "rejected by evaluator")
			res.Err = fmt.Errorf("rejected by evaluator")
			return res
		}
		prior = rv
	}

	// Cap exhausted without a decision: park the job for a human.
	last := prior
	score := 0
	if last != nil {
		score = domain.NormalizeScore(last.Score)
	}
	res := s.completeJob(base, job, last, score, domain.JobStatusNeedsReview, "iteration cap reached")
	res.Err = fmt.Errorf("iteration cap reached")
	return res
}

// completeJob persists a decided outcome, charges the budget once and pushes
// the terminal event. The job channel is closed only for truly terminal
// states; a job parked in review keeps its subscribers.
func (s *Service) completeJob(ctx context.Context, job *domain.Job, last *domain.Review, score int, status domain.JobStatus, reason string) Result {
	now := time.Now().UTC()
	job.Status = status
	job.FinalScore = score
	job.ReviewedAt = &now
	if last != nil {
		job.GateDecision = domain.GateFromVerdict(last.Verdict)
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("persist outcome failed")
	}

	passed := status == domain.JobStatusApproved
	if err := s.governor.RecordOutcome(ctx, job.UserID, passed); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("budget charge failed")
	}

	payload := map[string]any{
		"status":      string(status),
		"gate":        string(job.GateDecision),
		"final_score": score,
	}
	if reason != "" {
		payload["reason"] = reason
	}
	ev := push.NewEvent(push.EventJobCompleted, job.ID, payload)
	s.hub.Publish(job.UserID, ev)
	if job.Terminal() {
		s.hub.CloseKey(job.ID, ev)
	} else {
		s.hub.Publish(job.ID, ev)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("status", string(status)).
		Str("gate", string(job.GateDecision)).
		Int("final_score", score).
		Msg("job decided")
	return Result{OK: passed, JobID: job.ID, Score: score}
}

// failJob handles a collaborator or persistence failure at the iteration
// boundary: the job is parked for a human, the budget is still charged as a
// failed run and the error surfaces only on the event stream.
func (s *Service) failJob(ctx context.Context, job *domain.Job, cause error) Result {
	job.Status = domain.JobStatusNeedsReview
	job.ErrorMessage = cause.Error()
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("persist failure state failed")
	}
	if err := s.governor.RecordOutcome(ctx, job.UserID, false); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("budget charge failed")
	}
	s.emit(job.UserID, job.ID, push.EventJobError, map[string]any{
		"status": string(job.Status),
		"error":  cause.Error(),
	})
	s.logger.Error().Err(cause).Str("job_id", job.ID).Msg("job failed")
	return Result{JobID: job.ID, Err: cause}
}

// interruptJob parks a cancelled job for a human. Cancellation is not a
// billable outcome: no budget counter moves.
func (s *Service) interruptJob(ctx context.Context, job *domain.Job) Result {
	job.Status = domain.JobStatusNeedsReview
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("persist cancelled state failed")
	}
	s.emit(job.UserID, job.ID, push.EventJobCompleted, map[string]any{
		"status": string(job.Status),
		"reason": "cancelled",
	})
	s.logger.Info().Str("job_id", job.ID).Msg("job cancelled")
	return Result{JobID: job.ID, Err: context.Canceled}
}
