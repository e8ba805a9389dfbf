package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
)

func TestParseDraftPayloadNumbersAndSums(t *testing.T) {
	raw := "```json\n" + `{"scenes":[
		{"text":"Hook line","visual":"logo","duration_s":4},
		{"text":"Body line","visual":"chart"},
		{"text":"Outro","visual":"cta","duration_s":3.5}
	]}` + "\n```"

	draft, err := parseDraftPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.Scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(draft.Scenes))
	}
	for i, scene := range draft.Scenes {
		if scene.Number != i+1 {
			t.Fatalf("expected contiguous numbering, got %d at index %d", scene.Number, i)
		}
	}
	// Missing duration falls back to the default.
	if draft.Scenes[1].Duration != 5 {
		t.Fatalf("expected default duration 5, got %f", draft.Scenes[1].Duration)
	}
	if draft.TotalDuration != 12.5 {
		t.Fatalf("expected total 12.5, got %f", draft.TotalDuration)
	}
}

func TestParseDraftPayloadRejectsBadOutput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no json", "sorry, I cannot help"},
		{"no scenes", `{"scenes":[]}`},
		{"blank text", `{"scenes":[{"text":"  "}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseDraftPayload(tc.raw); !errors.Is(err, domain.ErrAgentFailure) {
				t.Fatalf("expected ErrAgentFailure, got %v", err)
			}
		})
	}
}

func TestBuildDraftPromptFeedbackReplacesPriorReview(t *testing.T) {
	req := Request{
		Article:  domain.Article{Title: "Solar farms", Body: "body"},
		Settings: jsoncfg.GenerationSettings{TargetDuration: 60, Language: "en"},
		PriorReview: &domain.Review{
			Score:   6,
			Verdict: domain.VerdictNeedsRevision,
			Comment: "weak hook",
		},
		Feedback:       "open with the statistic",
		FeedbackScenes: []int{1},
	}

	prompt := buildDraftPrompt(req)
	if !strings.Contains(prompt, "open with the statistic") {
		t.Fatal("human feedback missing from prompt")
	}
	if strings.Contains(prompt, "weak hook") {
		t.Fatal("prior review must be replaced by human feedback")
	}
}

func TestBuildDraftPromptCarriesSceneComments(t *testing.T) {
	req := Request{
		Article:   domain.Article{Title: "Solar farms", Body: "body"},
		Settings:  jsoncfg.GenerationSettings{TargetDuration: 60, Language: "en"},
		Iteration: 2,
		PriorReview: &domain.Review{
			Score:   6,
			Verdict: domain.VerdictNeedsRevision,
			Comment: "weak hook",
			Scenes: []domain.SceneComment{
				{Scene: 2, Kind: domain.CommentNegative, Text: "too slow"},
			},
		},
	}

	prompt := buildDraftPrompt(req)
	if !strings.Contains(prompt, "weak hook") || !strings.Contains(prompt, "too slow") {
		t.Fatal("prior review context missing from prompt")
	}
}

func TestStaticDrafterFillsTargetDuration(t *testing.T) {
	d := NewStaticDrafter()
	req := Request{
		Article: domain.Article{
			Title: "city gardens",
			Body:  "First sentence here. Second sentence here. Third sentence here. Fourth sentence here.",
		},
		Settings: jsoncfg.GenerationSettings{TargetDuration: 18, Language: "en"},
	}

	draft, err := d.Draft(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.Scenes) == 0 {
		t.Fatal("expected scenes")
	}
	if draft.Scenes[0].Text != "city gardens?" {
		t.Fatalf("expected title hook first, got %q", draft.Scenes[0].Text)
	}
	if draft.TotalDuration < 18 {
		t.Fatalf("expected the target duration to be filled, got %f", draft.TotalDuration)
	}
	for i, scene := range draft.Scenes {
		if scene.Number != i+1 {
			t.Fatalf("expected contiguous numbering, got %d at index %d", scene.Number, i)
		}
	}
}

func TestStaticDrafterEmptyArticleFails(t *testing.T) {
	d := NewStaticDrafter()
	req := Request{Settings: jsoncfg.GenerationSettings{TargetDuration: 60, Language: "en"}}
	if _, err := d.Draft(context.Background(), req); !errors.Is(err, domain.ErrAgentFailure) {
		t.Fatalf("expected ErrAgentFailure, got %v", err)
	}
}
