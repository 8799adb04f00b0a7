package core_test

import (
	"testing"

	"github.com/KhanhD1nh/compare-gcn/constants"
	"github.com/KhanhD1nh/compare-gcn/internal/core"
)

func TestSummarizeAccuracy(t *testing.T) {
	results := []core.Result{
		{Status: constants.StatusSuccess, Verdict: constants.VerdictMatch},
		{Status: constants.StatusCached, Verdict: constants.VerdictMatch},
		{Status: constants.StatusSuccess, Verdict: constants.VerdictMismatch},
		{Status: constants.StatusSkip, Verdict: constants.VerdictNA},
		{Status: constants.StatusError, Verdict: constants.VerdictNA},
	}
	s := core.Summarize(results)

	if s.Total != 5 {
		t.Fatalf("total = %d", s.Total)
	}
	if s.Matches != 2 || s.Mismatches != 1 {
		t.Fatalf("matches/mismatches = %d/%d, want 2/1", s.Matches, s.Mismatches)
	}
	if s.Accuracy == nil {
		t.Fatal("accuracy should be defined")
	}
	if want := 2.0 / 3.0; *s.Accuracy != want {
		t.Fatalf("accuracy = %f, want %f", *s.Accuracy, want)
	}
	if s.PerStatus[constants.StatusSuccess] != 2 || s.PerStatus[constants.StatusSkip] != 1 ||
		s.PerStatus[constants.StatusError] != 1 || s.PerStatus[constants.StatusCached] != 1 {
		t.Fatalf("per-status counts wrong: %+v", s.PerStatus)
	}
}

func TestSummarizeNoComparableResults(t *testing.T) {
	results := []core.Result{
		{Status: constants.StatusSkip, Verdict: constants.VerdictNA},
		{Status: constants.StatusError, Verdict: constants.VerdictNA},
	}
	s := core.Summarize(results)
	if s.Accuracy != nil {
		t.Fatalf("accuracy should be absent, got %f", *s.Accuracy)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := core.Summarize(nil)
	if s.Total != 0 || s.Accuracy != nil {
		t.Fatalf("unexpected summary for empty input: %+v", s)
	}
}

// Cached records that were originally skips or errors count toward the
// denominator only through their verdict gate: they are cached, so they are
// included, but carry no match either way.
func TestSummarizeCachedNonComparable(t *testing.T) {
	results := []core.Result{
		{Status: constants.StatusCached, Verdict: constants.VerdictNA},
		{Status: constants.StatusCached, Verdict: constants.VerdictMatch},
	}
	s := core.Summarize(results)
	if s.Matches != 1 {
		t.Fatalf("matches = %d", s.Matches)
	}
	if s.Accuracy == nil || *s.Accuracy != 0.5 {
		t.Fatalf("accuracy = %v, want 0.5", s.Accuracy)
	}
}
