package triage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"sitegauge/internal/rubric"
	"sitegauge/internal/triage"
)

func issue(id, kind string, cat rubric.Category, sev rubric.Severity, desc string) rubric.Issue {
	return rubric.Issue{ID: id, Kind: kind, Category: cat, Severity: sev, Description: desc}
}

func TestDedupe_SameKindMerges(t *testing.T) {
	issues := []rubric.Issue{
		issue("a/missing-contact/1", rubric.KindMissingContact, rubric.Persuasion, rubric.SeverityMedium,
			"no contact information anywhere"),
		issue("b/missing-contact/1", rubric.KindMissingContact, rubric.Persuasion, rubric.SeverityCritical,
			"site lacks reachable contact details"),
	}
	out := triage.Dedupe(issues, triage.DefaultSimilarity)

	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].ID != "a/missing-contact/1" {
		t.Errorf("ID = %s, want first-seen identity kept", out[0].ID)
	}
	if out[0].Severity != rubric.SeverityCritical {
		t.Errorf("severity = %s, want the higher Critical kept", out[0].Severity)
	}
}

func TestDedupe_SimilarDescriptionsMerge(t *testing.T) {
	issues := []rubric.Issue{
		issue("a/1", "kind-one", rubric.Content, rubric.SeverityLow,
			"page copy contains generic filler language"),
		issue("b/1", "kind-two", rubric.Content, rubric.SeverityMedium,
			"page copy contains generic filler text"),
	}
	out := triage.Dedupe(issues, 0.5)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1 (descriptions nearly identical)", len(out))
	}
}

func TestDedupe_DifferentCategoriesNeverMerge(t *testing.T) {
	issues := []rubric.Issue{
		issue("a/1", rubric.KindGenericCopy, rubric.Content, rubric.SeverityLow, "generic copy"),
		issue("b/1", rubric.KindGenericCopy, rubric.Distinctiveness, rubric.SeverityLow, "generic copy"),
	}
	out := triage.Dedupe(issues, 0.5)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (categories differ)", len(out))
	}
}

func TestDedupe_PreservesInputOrder(t *testing.T) {
	issues := []rubric.Issue{
		issue("a/1", "k1", rubric.Visual, rubric.SeverityLow, "palette has far too many colors"),
		issue("b/1", "k2", rubric.Structure, rubric.SeverityHigh, "heading levels skip around"),
		issue("c/1", "k3", rubric.Content, rubric.SeverityMedium, "body copy is extremely thin"),
	}
	out := triage.Dedupe(issues, 0.5)
	want := []string{"a/1", "b/1", "c/1"}
	var got []string
	for _, i := range out {
		got = append(got, i.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestPrioritize_SeverityFirst(t *testing.T) {
	issues := []rubric.Issue{
		issue("low", "k1", rubric.Visual, rubric.SeverityLow, "x"),
		issue("critical", "k2", rubric.Persuasion, rubric.SeverityCritical, "y"),
		issue("medium", "k3", rubric.Discoverability, rubric.SeverityMedium, "z"),
		issue("high", "k4", rubric.Structure, rubric.SeverityHigh, "w"),
	}
	out := triage.Prioritize(issues, nil)
	want := []string{"critical", "high", "medium", "low"}
	var got []string
	for _, i := range out {
		got = append(got, i.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestPrioritize_DeficitBreaksTies(t *testing.T) {
	issues := []rubric.Issue{
		issue("small-gap", "k1", rubric.Visual, rubric.SeverityMedium, "x"),
		issue("big-gap", "k2", rubric.Persuasion, rubric.SeverityMedium, "y"),
	}
	deficits := map[rubric.Category]float64{
		rubric.Visual:     0.5,
		rubric.Persuasion: 3.0,
	}
	out := triage.Prioritize(issues, deficits)
	if out[0].ID != "big-gap" {
		t.Errorf("first = %s, want big-gap (larger category deficit)", out[0].ID)
	}
}

func TestPrioritize_InsertionOrderIsFinalTieBreak(t *testing.T) {
	issues := []rubric.Issue{
		issue("first", "k1", rubric.Content, rubric.SeverityMedium, "x"),
		issue("second", "k2", rubric.Content, rubric.SeverityMedium, "y"),
	}
	for range 10 {
		out := triage.Prioritize(issues, nil)
		if out[0].ID != "first" || out[1].ID != "second" {
			t.Fatalf("unstable order: %s, %s", out[0].ID, out[1].ID)
		}
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		a, b []string
		want float64
	}{
		{nil, nil, 1.0},
		{[]string{"one"}, nil, 0},
		{[]string{"one", "two"}, []string{"one", "two"}, 1.0},
		{[]string{"one", "two"}, []string{"two", "three"}, 1.0 / 3},
	}
	for _, tc := range tests {
		if got := triage.JaccardSimilarity(tc.a, tc.b); got != tc.want {
			t.Errorf("JaccardSimilarity(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := triage.Tokenize("The page, has NO meta-description!")
	want := []string{"the", "page", "has", "meta-description"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}
