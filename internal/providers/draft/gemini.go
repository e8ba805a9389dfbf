package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"scriptflow/internal/domain"
	"scriptflow/internal/providers/genai"
)

// GeminiDrafter drafts scripts through the Gemini API.
type GeminiDrafter struct {
	client *genai.Client
	model  string
}

// NewGeminiDrafter wires a drafter onto a shared Gemini client.
func NewGeminiDrafter(client *genai.Client, model string) *GeminiDrafter {
	return &GeminiDrafter{client: client, model: model}
}

type draftPayload struct {
	Scenes []struct {
		Text     string  `json:"text"`
		Visual   string  `json:"visual"`
		Duration float64 `json:"duration_s"`
	} `json:"scenes"`
}

// Draft produces one script draft, streaming partial output through
// req.OnThinking when set.
func (d *GeminiDrafter) Draft(ctx context.Context, req Request) (*domain.Draft, error) {
	textReq := genai.TextRequest{
		Prompt:           buildDraftPrompt(req),
		Temperature:      0.7,
		ResponseMimeType: "application/json",
	}

	var (
		raw string
		err error
	)
	if req.OnThinking != nil {
		raw, err = d.client.StreamText(ctx, d.model, textReq, req.OnThinking)
	} else {
		raw, err = d.client.GenerateText(ctx, d.model, textReq)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: draft: %v", domain.ErrAgentFailure, err)
	}

	return parseDraftPayload(raw)
}

func parseDraftPayload(raw string) (*domain.Draft, error) {
	fragment := genai.ExtractJSONFragment(raw)
	if fragment == "" {
		return nil, fmt.Errorf("%w: draft: empty payload", domain.ErrAgentFailure)
	}
	var payload draftPayload
	if err := json.Unmarshal([]byte(fragment), &payload); err != nil {
		return nil, fmt.Errorf("%w: draft: malformed payload: %v", domain.ErrAgentFailure, err)
	}
	if len(payload.Scenes) == 0 {
		return nil, fmt.Errorf("%w: draft: no scenes returned", domain.ErrAgentFailure)
	}

	result := &domain.Draft{}
	for i, scene := range payload.Scenes {
		text := strings.TrimSpace(scene.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: draft: scene %d has no text", domain.ErrAgentFailure, i+1)
		}
		duration := scene.Duration
		if duration <= 0 {
			duration = 5
		}
		result.Scenes = append(result.Scenes, domain.Scene{
			Number:   i + 1,
			Text:     text,
			Visual:   strings.TrimSpace(scene.Visual),
			Duration: duration,
		})
		result.TotalDuration += duration
	}
	return result, nil
}

func buildDraftPrompt(req Request) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a short-form video scriptwriter. Turn the article below into a scene-by-scene script of roughly %d seconds in language '%s'. Respond strictly with JSON matching this schema: ", req.Settings.TargetDuration, req.Settings.Language)
	sb.WriteString(`{"scenes":[{"text":string,"visual":string,"duration_s":number}]}`)
	sb.WriteString(". Each scene text is spoken narration; visual describes what is on screen.")
	if style := strings.TrimSpace(req.Settings.Style); style != "" {
		fmt.Fprintf(sb, " Style: %s.", style)
	}
	if extra := strings.TrimSpace(req.Settings.Instructions); extra != "" {
		fmt.Fprintf(sb, " Additional instructions: %s.", extra)
	}
	for i, example := range req.Settings.Examples {
		fmt.Fprintf(sb, "\nWorked example %d:\n%s", i+1, example)
	}

	if req.Feedback != "" {
		fmt.Fprintf(sb, "\nA human reviewer gave the following feedback on the previous draft; address every point: %s", req.Feedback)
		if len(req.FeedbackScenes) > 0 {
			fmt.Fprintf(sb, " The feedback targets scenes %v; keep the other scenes intact unless the feedback requires otherwise.", req.FeedbackScenes)
		}
	} else if req.PriorReview != nil {
		fmt.Fprintf(sb, "\nIteration %d. The previous draft scored %.1f/10 with verdict %q. Overall comment: %s", req.Iteration, req.PriorReview.Score, req.PriorReview.Verdict, req.PriorReview.Comment)
		for _, sc := range req.PriorReview.Scenes {
			fmt.Fprintf(sb, "\nScene %d [%s]: %s", sc.Scene, sc.Kind, sc.Text)
		}
		sb.WriteString("\nFix the negative points and apply the suggestions in the new draft.")
	}

	fmt.Fprintf(sb, "\n\nArticle title: %s\nArticle body:\n%s", req.Article.Title, req.Article.Body)
	return sb.String()
}

var _ Drafter = (*GeminiDrafter)(nil)
