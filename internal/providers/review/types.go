package review

import (
	"context"

	"scriptflow/internal/domain"
	"scriptflow/internal/domain/jsoncfg"
)

// Request carries one draft to be evaluated against its source article.
type Request struct {
	Article  domain.Article
	Draft    domain.Draft
	Settings jsoncfg.GenerationSettings

	// OnThinking, when set, receives partial output fragments as the agent
	// produces them.
	OnThinking func(chunk string)
}

// Evaluator scores a drafted script and classifies it with a verdict.
type Evaluator interface {
	Evaluate(ctx context.Context, req Request) (*domain.Review, error)
}
