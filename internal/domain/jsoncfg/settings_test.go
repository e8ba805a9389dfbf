package jsoncfg

import "testing"

func TestNormalizeAppliesDefaultsAndCaps(t *testing.T) {
	s := GenerationSettings{}
	s.Normalize()
	if s.MaxIterations != DefaultMaxIterations {
		t.Fatalf("expected default max iterations, got %d", s.MaxIterations)
	}
	if s.ApprovalThreshold != DefaultApprovalThreshold {
		t.Fatalf("expected default threshold, got %f", s.ApprovalThreshold)
	}
	if s.TargetDuration != DefaultTargetDuration {
		t.Fatalf("expected default duration, got %d", s.TargetDuration)
	}
	if s.Language != DefaultLanguage {
		t.Fatalf("expected default language, got %q", s.Language)
	}

	s = GenerationSettings{
		MaxIterations:     99,
		ApprovalThreshold: 20,
		TargetDuration:    900,
		Examples:          []string{"a", "b", "c", "d", "e"},
	}
	s.Normalize()
	if s.MaxIterations != MaxIterationsCap {
		t.Fatalf("expected iteration cap, got %d", s.MaxIterations)
	}
	if s.ApprovalThreshold != 10 {
		t.Fatalf("expected threshold capped at 10, got %f", s.ApprovalThreshold)
	}
	if s.TargetDuration != MaxTargetDuration {
		t.Fatalf("expected duration cap, got %d", s.TargetDuration)
	}
	if len(s.Examples) != MaxExamples {
		t.Fatalf("expected examples trimmed to %d, got %d", MaxExamples, len(s.Examples))
	}
}

func TestApplyDefaultsRequestValuesWin(t *testing.T) {
	defaults := GenerationSettings{
		MaxIterations:     5,
		ApprovalThreshold: 7,
		TargetDuration:    90,
		Style:             "energetic",
		Language:          "de",
	}

	s := GenerationSettings{MaxIterations: 2, Language: "en"}
	s.ApplyDefaults(defaults)
	if s.MaxIterations != 2 {
		t.Fatalf("request value must win, got %d", s.MaxIterations)
	}
	if s.Language != "en" {
		t.Fatalf("request value must win, got %q", s.Language)
	}
	if s.ApprovalThreshold != 7 || s.TargetDuration != 90 || s.Style != "energetic" {
		t.Fatalf("defaults not applied: %+v", s)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	bad := []GenerationSettings{
		{MaxIterations: -1},
		{ApprovalThreshold: -0.1},
		{ApprovalThreshold: 10.5},
		{TargetDuration: -5},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, s)
		}
	}

	good := GenerationSettings{MaxIterations: 3, ApprovalThreshold: 8, TargetDuration: 60}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
