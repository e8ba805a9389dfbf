package revision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"scriptflow/internal/domain"
	"scriptflow/internal/pipeline"
)

// Runner is the single-pass corrective entry point on the pipeline.
type Runner interface {
	RunRevisionPass(ctx context.Context, job *domain.Job, feedback string, scenes []int) pipeline.Result
}

// Service reopens jobs parked for human review and bounds how often that can
// happen. It never runs the corrective pass itself; the pipeline does.
type Service struct {
	jobs     domain.JobRepository
	pipeline Runner
	logger   zerolog.Logger
}

// NewService wires the revision orchestrator.
func NewService(jobs domain.JobRepository, p Runner, logger zerolog.Logger) *Service {
	return &Service{
		jobs:     jobs,
		pipeline: p,
		logger:   logger.With().Str("component", "revision").Logger(),
	}
}

// Request reopens a job with reviewer feedback and triggers exactly one
// corrective pass. The trigger is fire-and-forget: the pass outcome reaches
// the caller only through the push channel. At the revision cap the job is
// forced to rejected instead.
func (s *Service) Request(ctx context.Context, jobID, feedback string, scenes []int) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != domain.JobStatusNeedsReview && job.Status != domain.JobStatusApproved {
		return fmt.Errorf("%w: job is %s", domain.ErrInvalidStatus, job.Status)
	}
	if job.RevisionCount >= domain.MaxRevisions {
		job.Status = domain.JobStatusRejected
		job.ErrorMessage = "maximum revision limit reached"
		if uerr := s.jobs.Update(ctx, job); uerr != nil {
			return fmt.Errorf("force reject: %w", uerr)
		}
		s.logger.Warn().Str("job_id", job.ID).Int("revisions", job.RevisionCount).Msg("revision cap hit, job rejected")
		return domain.ErrMaxRevisionsReached
	}

	job.RevisionCount++
	job.RevisionNotes = feedback
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("store revision request: %w", err)
	}
	s.logger.Info().Str("job_id", job.ID).Int("revision", job.RevisionCount).Msg("revision requested")

	go func() {
		res := s.pipeline.RunRevisionPass(context.Background(), job, feedback, scenes)
		if res.Err != nil {
			s.logger.Warn().Err(res.Err).Str("job_id", job.ID).Msg("revision pass did not approve")
		}
	}()
	return nil
}

// Reset is the administrative unstick mechanism: it clears the revision
// counter and notes and returns the job to pending so the automatic loop can
// start over. Only parked or revision-capped jobs qualify.
func (s *Service) Reset(ctx context.Context, jobID string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != domain.JobStatusNeedsReview && job.RevisionCount < domain.MaxRevisions {
		return fmt.Errorf("%w: job is %s", domain.ErrInvalidStatus, job.Status)
	}
	job.RevisionCount = 0
	job.RevisionNotes = ""
	job.ErrorMessage = ""
	job.Status = domain.JobStatusPending
	job.GateDecision = domain.GateDecisionUnset
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("reset revision: %w", err)
	}
	s.logger.Info().Str("job_id", job.ID).Msg("revision state reset")
	return nil
}
