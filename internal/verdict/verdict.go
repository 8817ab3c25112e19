// Package verdict turns consensus scores, the perception score, and the
// agreement level into one weighted 0-100 score and a discrete tier.
//
// The tier rules are evaluated in strict order with every condition
// required — this is the central business rule of the engine: a single weak
// category or low agreement must never be masked by a high average.
package verdict

import (
	"sitegauge/internal/consensus"
	"sitegauge/internal/rubric"
)

// Verdict is the discrete quality tier. The string values are part of the
// stable reporting interface.
type Verdict string

const (
	Poor       Verdict = "Poor"
	Good       Verdict = "Good"
	Excellent  Verdict = "Excellent"
	WorldClass Verdict = "WorldClass"
)

// Options configures the classifier.
type Options struct {
	// Weights maps category to its share of the category score. Must sum
	// to 1 across the six categories; equal weighting when empty.
	Weights map[rubric.Category]float64
	// BlendRatio is the category share of the weighted score; the
	// remainder is the perception share.
	BlendRatio float64
	// CategoryMin is the per-category floor for the Excellent tier.
	CategoryMin map[rubric.Category]float64
}

// DefaultOptions returns equal weights, a 0.75/0.25 blend, and the 7.0
// Excellent floor for every category.
func DefaultOptions() Options {
	weights := make(map[rubric.Category]float64)
	mins := make(map[rubric.Category]float64)
	n := float64(len(rubric.Categories()))
	for _, c := range rubric.Categories() {
		weights[c] = 1 / n
		mins[c] = 7.0
	}
	return Options{Weights: weights, BlendRatio: 0.75, CategoryMin: mins}
}

// Classification is the classifier output.
type Classification struct {
	WeightedScore float64 `json:"weighted_score"` // 0-100
	CategoryScore float64 `json:"category_score"` // 0-100 before blending
	Verdict       Verdict `json:"verdict"`
}

// Classify blends the consensus category scores with the perception total
// and applies the ordered tier rules. A category nobody scored counts as
// zero: an invisible category must drag the verdict down, not vanish.
func Classify(cons consensus.Result, perceptionTotal float64, opts Options) Classification {
	weights := opts.Weights
	if len(weights) == 0 {
		weights = DefaultOptions().Weights
	}

	var categoryScore float64 // 0-100
	for _, cat := range rubric.Categories() {
		categoryScore += weights[cat] * cons.CategoryScores[cat] * 10
	}

	weighted := opts.BlendRatio*categoryScore + (1-opts.BlendRatio)*perceptionTotal

	c := Classification{WeightedScore: weighted, CategoryScore: categoryScore}
	switch {
	case weighted >= 90 &&
		allCategoriesAtLeast(cons.CategoryScores, fixedFloor(9.0)) &&
		perceptionTotal >= 90 &&
		cons.AgreementLevel == consensus.AgreementHigh:
		c.Verdict = WorldClass
	case weighted >= 75 &&
		allCategoriesAtLeast(cons.CategoryScores, opts.CategoryMin) &&
		perceptionTotal >= 70 &&
		cons.AgreementLevel != consensus.AgreementLow:
		c.Verdict = Excellent
	case weighted >= 50:
		c.Verdict = Good
	default:
		c.Verdict = Poor
	}
	return c
}

func allCategoriesAtLeast(scores map[rubric.Category]float64, mins map[rubric.Category]float64) bool {
	for _, cat := range rubric.Categories() {
		if scores[cat] < mins[cat] {
			return false
		}
	}
	return true
}

func fixedFloor(v float64) map[rubric.Category]float64 {
	m := make(map[rubric.Category]float64, len(rubric.Categories()))
	for _, cat := range rubric.Categories() {
		m[cat] = v
	}
	return m
}
