package domain

import "testing"

func TestNormalizeScore(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{0, 0},
		{1, 10},
		{6.44, 64},
		{6.45, 65},
		{8.5, 85},
		{10, 100},
		{12, 100},
		{-1, 0},
	}
	for _, tc := range cases {
		if got := NormalizeScore(tc.raw); got != tc.want {
			t.Errorf("NormalizeScore(%v) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestGateFromVerdict(t *testing.T) {
	cases := []struct {
		verdict Verdict
		want    GateDecision
	}{
		{VerdictApproved, GateDecisionPass},
		{VerdictRejected, GateDecisionFail},
		{VerdictNeedsRevision, GateDecisionNeedsReview},
		{Verdict("unknown"), GateDecisionNeedsReview},
	}
	for _, tc := range cases {
		if got := GateFromVerdict(tc.verdict); got != tc.want {
			t.Errorf("GateFromVerdict(%q) = %q, want %q", tc.verdict, got, tc.want)
		}
	}
}

func TestJobTerminal(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusPending, false},
		{JobStatusIterating, false},
		{JobStatusNeedsReview, false},
		{JobStatusApproved, true},
		{JobStatusRejected, true},
	}
	for _, tc := range cases {
		job := Job{Status: tc.status}
		if got := job.Terminal(); got != tc.want {
			t.Errorf("Terminal() with %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}
