package revision

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"scriptflow/internal/domain"
	"scriptflow/internal/pipeline"
)

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newMemJobs(jobs ...*domain.Job) *memJobs {
	m := &memJobs{jobs: make(map[string]*domain.Job)}
	for _, job := range jobs {
		cp := *job
		m.jobs[job.ID] = &cp
	}
	return m
}

func (m *memJobs) Create(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobs) ExistsForArticle(context.Context, string, string) (bool, error) {
	return false, nil
}

func (m *memJobs) GetByID(_ context.Context, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *memJobs) ListByUser(context.Context, string, int) ([]domain.Job, error) {
	return nil, nil
}

func (m *memJobs) Update(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobs) StatsForUser(context.Context, string) (*domain.ScriptStats, error) {
	return &domain.ScriptStats{}, nil
}

// recordingRunner captures the corrective pass trigger instead of running it.
type recordingRunner struct {
	mu       sync.Mutex
	calls    int
	feedback string
	scenes   []int
	done     chan struct{}
}

func newRecordingRunner() *recordingRunner {
	return &recordingRunner{done: make(chan struct{}, 8)}
}

func (r *recordingRunner) RunRevisionPass(_ context.Context, _ *domain.Job, feedback string, scenes []int) pipeline.Result {
	r.mu.Lock()
	r.calls++
	r.feedback = feedback
	r.scenes = scenes
	r.mu.Unlock()
	r.done <- struct{}{}
	return pipeline.Result{OK: true}
}

func (r *recordingRunner) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("corrective pass was not triggered")
	}
}

func TestRequestTriggersSinglePass(t *testing.T) {
	jobs := newMemJobs(&domain.Job{
		ID:            "job-1",
		UserID:        "user-1",
		Status:        domain.JobStatusNeedsReview,
		RevisionCount: 1,
	})
	runner := newRecordingRunner()
	svc := NewService(jobs, runner, zerolog.Nop())

	if err := svc.Request(context.Background(), "job-1", "shorter scenes", []int{2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runner.wait(t)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.calls != 1 {
		t.Fatalf("expected exactly one corrective pass, got %d", runner.calls)
	}
	if runner.feedback != "shorter scenes" {
		t.Fatalf("feedback not forwarded: %q", runner.feedback)
	}
	if len(runner.scenes) != 2 {
		t.Fatalf("scene refs not forwarded: %v", runner.scenes)
	}

	job, _ := jobs.GetByID(context.Background(), "job-1")
	if job.RevisionCount != 2 {
		t.Fatalf("expected revision count 2, got %d", job.RevisionCount)
	}
	if job.RevisionNotes != "shorter scenes" {
		t.Fatalf("expected notes stored, got %q", job.RevisionNotes)
	}
}

func TestRequestAtCapForcesRejection(t *testing.T) {
	jobs := newMemJobs(&domain.Job{
		ID:            "job-1",
		Status:        domain.JobStatusNeedsReview,
		RevisionCount: domain.MaxRevisions,
	})
	runner := newRecordingRunner()
	svc := NewService(jobs, runner, zerolog.Nop())

	err := svc.Request(context.Background(), "job-1", "again", nil)
	if !errors.Is(err, domain.ErrMaxRevisionsReached) {
		t.Fatalf("expected ErrMaxRevisionsReached, got %v", err)
	}

	job, _ := jobs.GetByID(context.Background(), "job-1")
	if job.Status != domain.JobStatusRejected {
		t.Fatalf("expected forced rejection, got %s", job.Status)
	}
	if job.RevisionCount != domain.MaxRevisions {
		t.Fatalf("revision count must not move past the cap, got %d", job.RevisionCount)
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.calls != 0 {
		t.Fatal("no corrective pass may start at the cap")
	}
}

func TestRequestRejectsWrongStatus(t *testing.T) {
	jobs := newMemJobs(&domain.Job{ID: "job-1", Status: domain.JobStatusIterating})
	svc := NewService(jobs, newRecordingRunner(), zerolog.Nop())

	err := svc.Request(context.Background(), "job-1", "feedback", nil)
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestRequestUnknownJob(t *testing.T) {
	svc := NewService(newMemJobs(), newRecordingRunner(), zerolog.Nop())
	if err := svc.Request(context.Background(), "missing", "feedback", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResetClearsRevisionState(t *testing.T) {
	jobs := newMemJobs(&domain.Job{
		ID:            "job-1",
		Status:        domain.JobStatusNeedsReview,
		GateDecision:  domain.GateDecisionNeedsReview,
		RevisionCount: 3,
		RevisionNotes: "old notes",
		ErrorMessage:  "agent failed",
	})
	svc := NewService(jobs, newRecordingRunner(), zerolog.Nop())

	if err := svc.Reset(context.Background(), "job-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, _ := jobs.GetByID(context.Background(), "job-1")
	if job.Status != domain.JobStatusPending {
		t.Fatalf("expected pending, got %s", job.Status)
	}
	if job.RevisionCount != 0 || job.RevisionNotes != "" || job.ErrorMessage != "" {
		t.Fatalf("revision state not cleared: %+v", job)
	}
	if job.GateDecision != domain.GateDecisionUnset {
		t.Fatalf("expected gate cleared, got %q", job.GateDecision)
	}
}

func TestResetAllowsRevisionCappedJob(t *testing.T) {
	jobs := newMemJobs(&domain.Job{
		ID:            "job-1",
		Status:        domain.JobStatusRejected,
		RevisionCount: domain.MaxRevisions,
	})
	svc := NewService(jobs, newRecordingRunner(), zerolog.Nop())

	if err := svc.Reset(context.Background(), "job-1"); err != nil {
		t.Fatalf("capped job must be resettable, got %v", err)
	}
}

func TestResetRejectsHealthyJob(t *testing.T) {
	jobs := newMemJobs(&domain.Job{ID: "job-1", Status: domain.JobStatusApproved, RevisionCount: 1})
	svc := NewService(jobs, newRecordingRunner(), zerolog.Nop())

	if err := svc.Reset(context.Background(), "job-1"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
