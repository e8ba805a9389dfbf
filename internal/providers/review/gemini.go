package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"scriptflow/internal/domain"
	"scriptflow/internal/providers/genai"
)

// GeminiEvaluator scores drafts through the Gemini API.
type GeminiEvaluator struct {
	client *genai.Client
	model  string
}

// NewGeminiEvaluator wires an evaluator onto a shared Gemini client.
func NewGeminiEvaluator(client *genai.Client, model string) *GeminiEvaluator {
	return &GeminiEvaluator{client: client, model: model}
}

type reviewPayload struct {
	Score   float64 `json:"score"`
	Verdict string  `json:"verdict"`
	Comment string  `json:"comment"`
	Scenes  []struct {
		Scene int    `json:"scene"`
		Kind  string `json:"kind"`
		Text  string `json:"text"`
	} `json:"scene_comments"`
}

// Evaluate scores one draft, streaming partial output through req.OnThinking
// when set.
func (e *GeminiEvaluator) Evaluate(ctx context.Context, req Request) (*domain.Review, error) {
	textReq := genai.TextRequest{
		Prompt:           buildReviewPrompt(req),
		Temperature:      0.2,
		ResponseMimeType: "application/json",
	}

	var (
		raw string
		err error
	)
	if req.OnThinking != nil {
		raw, err = e.client.StreamText(ctx, e.model, textReq, req.OnThinking)
	} else {
		raw, err = e.client.GenerateText(ctx, e.model, textReq)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: evaluate: %v", domain.ErrAgentFailure, err)
	}

	return parseReviewPayload(raw)
}

func parseReviewPayload(raw string) (*domain.Review, error) {
	fragment := genai.ExtractJSONFragment(raw)
	if fragment == "" {
		return nil, fmt.Errorf("%w: evaluate: empty payload", domain.ErrAgentFailure)
	}
	var payload reviewPayload
	if err := json.Unmarshal([]byte(fragment), &payload); err != nil {
		return nil, fmt.Errorf("%w: evaluate: malformed payload: %v", domain.ErrAgentFailure, err)
	}

	review := &domain.Review{
		Score:   clampScore(payload.Score),
		Verdict: parseVerdict(payload.Verdict),
		Comment: strings.TrimSpace(payload.Comment),
	}
	for _, sc := range payload.Scenes {
		review.Scenes = append(review.Scenes, domain.SceneComment{
			Scene: sc.Scene,
			Kind:  parseCommentKind(sc.Kind),
			Text:  strings.TrimSpace(sc.Text),
		})
	}
	return review, nil
}

func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func parseVerdict(raw string) domain.Verdict {
	switch domain.Verdict(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.VerdictApproved:
		return domain.VerdictApproved
	case domain.VerdictRejected:
		return domain.VerdictRejected
	default:
		return domain.VerdictNeedsRevision
	}
}

func parseCommentKind(raw string) domain.CommentKind {
	switch domain.CommentKind(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.CommentPositive:
		return domain.CommentPositive
	case domain.CommentNegative:
		return domain.CommentNegative
	case domain.CommentSuggestion:
		return domain.CommentSuggestion
	default:
		return domain.CommentInfo
	}
}

func buildReviewPrompt(req Request) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a strict short-form video editor. Evaluate the script below against its source article. Score 1-10 for hook strength, factual accuracy, pacing and fit to a %d second runtime. A script scoring %.1f or higher should get verdict \"approved\"; an unsalvageable script gets \"rejected\"; everything else \"needs_revision\". Respond strictly with JSON: ", req.Settings.TargetDuration, req.Settings.ApprovalThreshold)
	sb.WriteString(`{"score":number,"verdict":"approved"|"needs_revision"|"rejected","comment":string,"scene_comments":[{"scene":number,"kind":"positive"|"negative"|"suggestion"|"info","text":string}]}`)
	fmt.Fprintf(sb, "\n\nArticle title: %s\nArticle body:\n%s\n\nScript (%d scenes, %.0f seconds total):", req.Article.Title, req.Article.Body, len(req.Draft.Scenes), req.Draft.TotalDuration)
	for _, scene := range req.Draft.Scenes {
		fmt.Fprintf(sb, "\nScene %d (%.0fs): %s [visual: %s]", scene.Number, scene.Duration, scene.Text, scene.Visual)
	}
	return sb.String()
}

var _ Evaluator = (*GeminiEvaluator)(nil)
