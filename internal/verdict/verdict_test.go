package verdict_test

import (
	"math"
	"testing"

	"sitegauge/internal/consensus"
	"sitegauge/internal/rubric"
	"sitegauge/internal/verdict"
)

func uniformScores(v float64) map[rubric.Category]float64 {
	m := make(map[rubric.Category]float64)
	for _, c := range rubric.Categories() {
		m[c] = v
	}
	return m
}

func cons(scores map[rubric.Category]float64, agreement consensus.AgreementLevel) consensus.Result {
	return consensus.Result{CategoryScores: scores, AgreementLevel: agreement}
}

func TestClassify_BlendArithmetic(t *testing.T) {
	c := verdict.Classify(cons(uniformScores(8), consensus.AgreementHigh), 60, verdict.DefaultOptions())

	if math.Abs(c.CategoryScore-80) > 1e-9 {
		t.Errorf("CategoryScore = %v, want 80", c.CategoryScore)
	}
	want := 0.75*80 + 0.25*60
	if math.Abs(c.WeightedScore-want) > 1e-9 {
		t.Errorf("WeightedScore = %v, want %v", c.WeightedScore, want)
	}
}

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		name       string
		scores     map[rubric.Category]float64
		perception float64
		agreement  consensus.AgreementLevel
		want       verdict.Verdict
	}{
		{"world class", uniformScores(9.5), 95, consensus.AgreementHigh, verdict.WorldClass},
		{"world class blocked by agreement", uniformScores(9.5), 95, consensus.AgreementMedium, verdict.Excellent},
		{"world class blocked by perception", uniformScores(9.5), 85, consensus.AgreementHigh, verdict.Excellent},
		{"excellent", uniformScores(8), 75, consensus.AgreementMedium, verdict.Excellent},
		{"excellent blocked by low agreement", uniformScores(8), 75, consensus.AgreementLow, verdict.Good},
		{"excellent blocked by weak perception", uniformScores(9), 69, consensus.AgreementHigh, verdict.Good},
		{"good", uniformScores(6), 50, consensus.AgreementHigh, verdict.Good},
		{"poor", uniformScores(3), 30, consensus.AgreementHigh, verdict.Poor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := verdict.Classify(cons(tc.scores, tc.agreement), tc.perception, verdict.DefaultOptions())
			if c.Verdict != tc.want {
				t.Errorf("verdict = %s, want %s (weighted %.1f)", c.Verdict, tc.want, c.WeightedScore)
			}
		})
	}
}

func TestClassify_WeakCategoryNotMaskedByAverage(t *testing.T) {
	// Five strong categories cannot carry one weak one into Excellent.
	scores := uniformScores(9.5)
	scores[rubric.Persuasion] = 5
	c := verdict.Classify(cons(scores, consensus.AgreementHigh), 90, verdict.DefaultOptions())

	if c.WeightedScore < 75 {
		t.Fatalf("test premise broken: weighted %.1f should clear the Excellent bar", c.WeightedScore)
	}
	if c.Verdict != verdict.Good {
		t.Errorf("verdict = %s, want Good (Persuasion 5 is below the 7.0 floor)", c.Verdict)
	}
}

func TestClassify_UnscoredCategoryCountsAsZero(t *testing.T) {
	scores := uniformScores(9.5)
	delete(scores, rubric.Distinctiveness)
	c := verdict.Classify(cons(scores, consensus.AgreementHigh), 90, verdict.DefaultOptions())

	// 5/6 of the categories at 9.5: category score drops to ~79.2.
	want := 0.75*(9.5*10*5/6) + 0.25*90
	if math.Abs(c.WeightedScore-want) > 1e-9 {
		t.Errorf("WeightedScore = %v, want %v (missing category scored as zero)", c.WeightedScore, want)
	}
	if c.Verdict == verdict.Excellent || c.Verdict == verdict.WorldClass {
		t.Errorf("verdict = %s; an unscored category must block the upper tiers", c.Verdict)
	}
}

func TestClassify_CustomWeights(t *testing.T) {
	weights := map[rubric.Category]float64{rubric.Persuasion: 1}
	scores := uniformScores(5)
	scores[rubric.Persuasion] = 10

	opts := verdict.DefaultOptions()
	opts.Weights = weights
	c := verdict.Classify(cons(scores, consensus.AgreementHigh), 0, opts)

	if math.Abs(c.CategoryScore-100) > 1e-9 {
		t.Errorf("CategoryScore = %v, want 100 with all weight on Persuasion", c.CategoryScore)
	}
}
