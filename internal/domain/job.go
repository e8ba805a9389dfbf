package domain

import "time"

// JobStatus enumerates script job lifecycle states.
type JobStatus string

const (
	JobStatusPending     JobStatus = "pending"
	JobStatusIterating   JobStatus = "iterating"
	JobStatusNeedsReview JobStatus = "needs_human_review"
	JobStatusApproved    JobStatus = "approved"
	JobStatusRejected    JobStatus = "rejected"
)

// GateDecision is the derived accept/reject label stored on a job once the
// automatic loop has produced its last review.
type GateDecision string

const (
	GateDecisionUnset       GateDecision = ""
	GateDecisionPass        GateDecision = "PASS"
	GateDecisionNeedsReview GateDecision = "NEEDS_REVIEW"
	GateDecisionFail        GateDecision = "FAIL"
)

// MaxRevisions caps human-triggered corrective passes per job. Once the cap is
// hit the job is forced to rejected; only a revision reset can unstick it.
const MaxRevisions = 5

// Job encapsulates one script generation attempt for one article.
type Job struct {
	ID             string
	UserID         string
	ArticleID      string
	Status         JobStatus
	GateDecision   GateDecision
	IterationCount int
	RevisionCount  int
	FinalScore     int // normalized 0-100
	RevisionNotes  string
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReviewedAt     *time.Time
}

// Terminal reports whether the job can no longer be touched by the automatic
// loop. A needs_human_review job is not terminal: the revision flow may
// reopen it.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusApproved || j.Status == JobStatusRejected
}

// GateFromVerdict maps the last review verdict onto the stored gate decision.
func GateFromVerdict(v Verdict) GateDecision {
	switch v {
	case VerdictApproved:
		return GateDecisionPass
	case VerdictRejected:
		return GateDecisionFail
	default:
		return GateDecisionNeedsReview
	}
}
