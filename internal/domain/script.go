package domain

import (
	"math"
	"time"
)

// Scene is one ordered content unit of a drafted script.
type Scene struct {
	Number   int     `json:"number"`
	Text     string  `json:"text"`
	Visual   string  `json:"visual"`
	Duration float64 `json:"duration_s"`
}

// Draft is the drafting agent's output for one iteration.
type Draft struct {
	Scenes        []Scene `json:"scenes"`
	TotalDuration float64 `json:"total_duration_s"`
}

// Verdict classifies an evaluation outcome.
type Verdict string

const (
	VerdictApproved      Verdict = "approved"
	VerdictNeedsRevision Verdict = "needs_revision"
	VerdictRejected      Verdict = "rejected"
)

// CommentKind types a per-scene evaluator comment.
type CommentKind string

const (
	CommentPositive   CommentKind = "positive"
	CommentNegative   CommentKind = "negative"
	CommentSuggestion CommentKind = "suggestion"
	CommentInfo       CommentKind = "info"
)

// SceneComment is one evaluator remark attached to a specific scene.
type SceneComment struct {
	Scene int         `json:"scene"`
	Kind  CommentKind `json:"kind"`
	Text  string      `json:"text"`
}

// Review is the evaluation output for one iteration. Score is on the
// evaluator's 1-10 scale; NormalizeScore maps it onto the job's 0-100 scale.
type Review struct {
	Score   float64        `json:"score"`
	Verdict Verdict        `json:"verdict"`
	Comment string         `json:"comment"`
	Scenes  []SceneComment `json:"scene_comments,omitempty"`
}

// NormalizeScore maps the evaluator's 1-10 score to the 0-100 job scale.
func NormalizeScore(raw float64) int {
	n := int(math.Round(raw * 10))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Iteration is one draft+evaluate pass within a job. Versions are contiguous
// starting at 1 and never reused; the review stays nil until evaluation
// completes.
type Iteration struct {
	ID        string
	JobID     string
	Version   int
	Scenes    []Scene
	Review    *Review
	CreatedAt time.Time
}

// Article is a candidate source item.
type Article struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
}

// ScriptStats aggregates a user's job outcomes.
type ScriptStats struct {
	Total       int     `json:"total"`
	Approved    int     `json:"approved"`
	NeedsReview int     `json:"needs_review"`
	Rejected    int     `json:"rejected"`
	AvgScore    float64 `json:"avg_score"`
	Today       int     `json:"today"`
}
