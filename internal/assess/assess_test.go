package assess_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sitegauge/internal/assess"
	"sitegauge/internal/config"
	"sitegauge/internal/rubric"
	"sitegauge/internal/site"
)

func flawedSite() *site.Site {
	return &site.Site{
		Name:     "Acme Plumbing",
		Industry: "plumbing",
		Pages: []site.Page{
			{
				Path:  "/",
				Title: "Acme Plumbing",
				Blocks: []site.Block{
					{Kind: site.BlockParagraph, Text: "We fix pipes."},
				},
			},
			{
				Path:  "/services",
				Title: "Acme Plumbing — Services",
				Blocks: []site.Block{
					{Kind: site.BlockParagraph, Text: "Drain cleaning and repairs."},
				},
			},
		},
		Style:   site.Stylesheet{Palette: []string{"#1f3a5f", "#f4f1ea"}, Fonts: []string{"Georgia"}},
		Contact: &site.ContactInfo{Phone: "555-0100"},
	}
}

func TestAssess_ProducesVerdictAndQueue(t *testing.T) {
	e := assess.NewEngine(nil)
	a, err := e.Assess(context.Background(), flawedSite())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if a.SiteName != "Acme Plumbing" {
		t.Errorf("SiteName = %q", a.SiteName)
	}
	if a.WeightedScore <= 0 || a.WeightedScore > 100 {
		t.Errorf("WeightedScore = %v, want (0, 100]", a.WeightedScore)
	}
	if a.Verdict == "" {
		t.Error("verdict empty")
	}
	if len(a.Issues) == 0 {
		t.Fatal("a site with no nav, cta, contact block, or meta descriptions must surface issues")
	}
	if len(a.Evaluations) != len(e.Evaluators) {
		t.Errorf("Evaluations = %d, want one per evaluator", len(a.Evaluations))
	}
}

func TestAssess_QueueOrderedBySeverity(t *testing.T) {
	a, err := assess.NewEngine(nil).Assess(context.Background(), flawedSite())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	prev := 4
	for _, issue := range a.Issues {
		r := issue.Severity.Rank()
		if r > prev {
			t.Fatalf("queue out of order: %s (%s) after rank %d", issue.ID, issue.Severity, prev)
		}
		prev = r
	}
}

func TestAssess_QueueDeduplicated(t *testing.T) {
	a, err := assess.NewEngine(nil).Assess(context.Background(), flawedSite())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	type key struct {
		cat  rubric.Category
		kind string
	}
	seen := make(map[key]string)
	for _, issue := range a.Issues {
		k := key{issue.Category, issue.Kind}
		if prior, dup := seen[k]; dup {
			t.Errorf("duplicate %s/%s: %s and %s", issue.Category, issue.Kind, prior, issue.ID)
		}
		seen[k] = issue.ID
	}
}

func TestAssessSnapshot_Deterministic(t *testing.T) {
	e := assess.NewEngine(nil)
	snap, err := site.StaticRenderer{}.Render(flawedSite())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	first, err := e.AssessSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := e.AssessSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("assessments differ across runs (-first +second):\n%s", diff)
	}
}

func TestAssessSnapshot_NilSnapshot(t *testing.T) {
	if _, err := assess.NewEngine(nil).AssessSnapshot(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil snapshot")
	}
}

// slowEvaluator blocks past any reasonable timeout.
type slowEvaluator struct{}

func (slowEvaluator) ID() string { return "slow" }

func (slowEvaluator) Categories() []rubric.Category { return []rubric.Category{rubric.Content} }

func (slowEvaluator) Evaluate(*site.Snapshot) rubric.Evaluation {
	time.Sleep(5 * time.Second)
	return rubric.Evaluation{EvaluatorID: "slow", Confidence: 1}
}

func TestAssessSnapshot_TimedOutEvaluatorAbstains(t *testing.T) {
	cfg := config.Default()
	cfg.EvaluatorTimeout = config.Duration(50 * time.Millisecond)
	e := assess.NewEngine(cfg)
	e.Evaluators = append(e.Evaluators, slowEvaluator{})

	snap, err := site.StaticRenderer{}.Render(flawedSite())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	start := time.Now()
	a, err := e.AssessSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("AssessSnapshot: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("assessment took %v; the timeout did not bound the slow evaluator", elapsed)
	}

	var slow *rubric.Evaluation
	for i := range a.Evaluations {
		if a.Evaluations[i].EvaluatorID == "slow" {
			slow = &a.Evaluations[i]
		}
	}
	if slow == nil {
		t.Fatal("slow evaluator missing from the audit trail")
	}
	if slow.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 on timeout", slow.Confidence)
	}
	if len(slow.Issues) == 0 || slow.Issues[0].Kind != rubric.KindUnreadableSnapshot {
		t.Errorf("timeout must be recorded as an %s issue, got %+v", rubric.KindUnreadableSnapshot, slow.Issues)
	}
	if _, scored := a.CategoryScores[rubric.Content]; !scored {
		t.Error("Content must still be scored by the remaining evaluators")
	}
}

func TestAssessSnapshot_UnscoredCategoryDragsScore(t *testing.T) {
	e := assess.NewEngine(nil)
	var kept []rubric.Evaluator
	for _, ev := range e.Evaluators {
		if ev.ID() != "persuasion" {
			kept = append(kept, ev)
		}
	}
	if len(kept) == len(e.Evaluators) {
		t.Fatal("test premise broken: no evaluator with ID persuasion")
	}

	snap, err := site.StaticRenderer{}.Render(flawedSite())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	full, err := e.AssessSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	e.Evaluators = kept
	partial, err := e.AssessSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if _, ok := partial.CategoryScores[rubric.Persuasion]; ok {
		t.Fatal("Persuasion scored with its evaluator removed")
	}
	if partial.WeightedScore >= full.WeightedScore {
		t.Errorf("score with Persuasion unscored = %.1f, want below the full %.1f",
			partial.WeightedScore, full.WeightedScore)
	}
}
