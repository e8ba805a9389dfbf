package jsoncfg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenerationSettings is the canonical settings contract accepted with a batch
// request and fed to the drafting and evaluation agents.
type GenerationSettings struct {
	MaxIterations     int      `json:"max_iterations"`
	ApprovalThreshold float64  `json:"approval_threshold"`
	Style             string   `json:"style"`
	TargetDuration    int      `json:"target_duration_s"`
	Language          string   `json:"language"`
	Instructions      string   `json:"instructions"`
	Examples          []string `json:"examples"`
}

const (
	// DefaultMaxIterations bounds automatic draft/evaluate passes per job.
	DefaultMaxIterations = 3
	// MaxIterationsCap is the hard ceiling regardless of request settings.
	MaxIterationsCap = 10
	// DefaultApprovalThreshold is on the evaluator's 1-10 scale.
	DefaultApprovalThreshold = 8.0
	// DefaultTargetDuration is the target script length in seconds.
	DefaultTargetDuration = 60
	// MaxTargetDuration caps requested script length.
	MaxTargetDuration = 180
	// DefaultLanguage is applied when no language preference is provided.
	DefaultLanguage = "en"
	// MaxExamples caps worked examples passed to the drafting agent.
	MaxExamples = 3
)

// ApplyDefaults copies server-configured defaults into unset fields. Request
// values always win when present.
func (s *GenerationSettings) ApplyDefaults(d GenerationSettings) {
	if s == nil {
		return
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.ApprovalThreshold <= 0 {
		s.ApprovalThreshold = d.ApprovalThreshold
	}
	if s.TargetDuration <= 0 {
		s.TargetDuration = d.TargetDuration
	}
	if strings.TrimSpace(s.Style) == "" {
		s.Style = d.Style
	}
	if strings.TrimSpace(s.Language) == "" {
		s.Language = d.Language
	}
}

// Normalize ensures the settings respect server defaults and limits.
func (s *GenerationSettings) Normalize() {
	if s == nil {
		return
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if s.MaxIterations > MaxIterationsCap {
		s.MaxIterations = MaxIterationsCap
	}
	if s.ApprovalThreshold <= 0 {
		s.ApprovalThreshold = DefaultApprovalThreshold
	}
	if s.ApprovalThreshold > 10 {
		s.ApprovalThreshold = 10
	}
	if s.TargetDuration <= 0 {
		s.TargetDuration = DefaultTargetDuration
	}
	if s.TargetDuration > MaxTargetDuration {
		s.TargetDuration = MaxTargetDuration
	}
	if strings.TrimSpace(s.Language) == "" {
		s.Language = DefaultLanguage
	}
	if len(s.Examples) > MaxExamples {
		s.Examples = s.Examples[:MaxExamples]
	}
}

// Validate ensures the settings satisfy the contract before a batch is accepted.
func (s GenerationSettings) Validate() error {
	if s.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	if s.ApprovalThreshold < 0 || s.ApprovalThreshold > 10 {
		return fmt.Errorf("approval_threshold must be between 0 and 10")
	}
	if s.TargetDuration < 0 {
		return fmt.Errorf("target_duration_s must not be negative")
	}
	return nil
}

func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
