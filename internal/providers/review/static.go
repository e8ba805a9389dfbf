package review

import (
	"context"
	"fmt"
	"math"

	"scriptflow/internal/domain"
)

// StaticEvaluator scores drafts with a deterministic heuristic. It stands in
// for the Gemini evaluator when no API key is configured.
type StaticEvaluator struct{}

func NewStaticEvaluator() *StaticEvaluator {
	return &StaticEvaluator{}
}

// Evaluate scores on duration fit and scene count. A draft close to the
// target duration with a reasonable scene count is approved.
func (e *StaticEvaluator) Evaluate(ctx context.Context, req Request) (*domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Draft.Scenes) == 0 {
		return &domain.Review{
			Score:   1,
			Verdict: domain.VerdictRejected,
			Comment: "draft contains no scenes",
		}, nil
	}

	target := float64(req.Settings.TargetDuration)
	drift := math.Abs(req.Draft.TotalDuration-target) / target
	score := 10 - drift*10
	if len(req.Draft.Scenes) < 3 {
		score -= 2
	}
	score = clampScore(score)

	verdict := domain.VerdictNeedsRevision
	if score >= req.Settings.ApprovalThreshold {
		verdict = domain.VerdictApproved
	}

	return &domain.Review{
		Score:   score,
		Verdict: verdict,
		Comment: fmt.Sprintf("synthetic evaluation: %d scenes, %.0fs against a %.0fs target", len(req.Draft.Scenes), req.Draft.TotalDuration, target),
		Scenes: []domain.SceneComment{{
			Scene: 1,
			Kind:  domain.CommentInfo,
			Text:  "scored by the synthetic evaluator; configure GEMINI_API_KEY for real reviews",
		}},
	}, nil
}

var _ Evaluator = (*StaticEvaluator)(nil)
