package draft

import (
	"context"

	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
)

// Request carries everything the drafting agent needs for one pass.
type Request struct {
	Article   domain.Article
	Settings  jsoncfg.GenerationSettings
	Iteration int

	// PriorReview is corrective context from the previous automatic pass.
	PriorReview *domain.Review

	// Feedback and FeedbackScenes carry human reviewer notes on revision
	// passes; Feedback replaces PriorReview as corrective context.
	Feedback       string
	FeedbackScenes []int

	// OnThinking, when set, receives partial output fragments as the agent
	// produces them.
	OnThinking func(chunk string)
}

// Drafter produces a scene-by-scene script draft from an article.
type Drafter interface {
	Draft(ctx context.Context, req Request) (*domain.Draft, error)
}
