package draft

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scriptflow/internal/domain"
)

// StaticDrafter produces deterministic drafts from the article text alone.
// It stands in for the Gemini drafter when no API key is configured so the
// whole pipeline stays runnable in local and CI environments.
type StaticDrafter struct{}

func NewStaticDrafter() *StaticDrafter {
	return &StaticDrafter{}
}

const staticSceneDuration = 6.0

// Draft splits the article into sentences and maps them onto scenes until
// the target duration is filled.
func (d *StaticDrafter) Draft(ctx context.Context, req Request) (*domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := float64(req.Settings.TargetDuration)
	titler := cases.Title(languageTag(req.Settings.Language))

	result := &domain.Draft{}
	hook := strings.TrimSpace(req.Article.Title)
	if hook != "" {
		result.Scenes = append(result.Scenes, domain.Scene{
			Number:   1,
			Text:     hook + "?",
			Visual:   titler.String(hook),
			Duration: staticSceneDuration,
		})
		result.TotalDuration = staticSceneDuration
	}

	for _, sentence := range splitSentences(req.Article.Body) {
		if result.TotalDuration >= target {
			break
		}
		n := len(result.Scenes) + 1
		result.Scenes = append(result.Scenes, domain.Scene{
			Number:   n,
			Text:     sentence,
			Visual:   "B-roll: " + titler.String(firstWords(sentence, 5)),
			Duration: staticSceneDuration,
		})
		result.TotalDuration += staticSceneDuration
	}

	if len(result.Scenes) == 0 {
		return nil, domain.ErrAgentFailure
	}
	return result, nil
}

func languageTag(code string) language.Tag {
	tag, err := language.Parse(code)
	if err != nil {
		return language.English
	}
	return tag
}

func splitSentences(body string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(body, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		if part = strings.TrimSpace(part); len(part) > 3 {
			out = append(out, part+".")
		}
	}
	return out
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

var _ Drafter = (*StaticDrafter)(nil)
