// Package consensus reconciles the specialist evaluations into one score
// per category, with an explicit agreement signal and outlier flags. The
// aggregation is deliberately transparent: a confidence-weighted mean plus
// a variance-based agreement metric, never a black-box average.
package consensus

import (
	"math"
	"sort"

	"sitegauge/internal/rubric"
)

// AgreementLevel discretizes inter-evaluator variance.
type AgreementLevel string

const (
	AgreementHigh   AgreementLevel = "High"
	AgreementMedium AgreementLevel = "Medium"
	AgreementLow    AgreementLevel = "Low"
)

// Options holds the tuned constants. Treat as configuration, not truths.
type Options struct {
	HighVariance   float64 // mean variance below this = High agreement
	MediumVariance float64 // below this = Medium; else Low
	OutlierSigma   float64 // deviation beyond sigma*stddev flags an outlier
}

// DefaultOptions returns the conventional thresholds for 0-10 score space.
func DefaultOptions() Options {
	return Options{HighVariance: 1.0, MediumVariance: 4.0, OutlierSigma: 2.0}
}

// Result is the reconciled cross-rubric view for one snapshot. Recomputed
// every iteration, never persisted across sessions.
type Result struct {
	CategoryScores map[rubric.Category]float64 `json:"category_scores"`
	// CategoryVariance is kept for the audit trail; the discretized
	// AgreementLevel is what downstream components consume.
	CategoryVariance  map[rubric.Category]float64 `json:"category_variance"`
	AgreementLevel    AgreementLevel              `json:"agreement_level"`
	OutlierEvaluators []string                    `json:"outlier_evaluators,omitempty"`
}

// Combine reconciles evaluations into per-category consensus scores.
// Evaluators with confidence 0 abstain from every category; categories an
// evaluator did not score are abstentions, not zeros. Outliers are flagged
// but never excluded — the disagreement stays visible for a human audit.
func Combine(evals []rubric.Evaluation, opts Options) Result {
	res := Result{
		CategoryScores:   make(map[rubric.Category]float64),
		CategoryVariance: make(map[rubric.Category]float64),
	}

	outliers := make(map[string]bool)
	var varianceSum float64
	var scoredCategories int

	for _, cat := range rubric.Categories() {
		type opinion struct {
			evaluator  string
			score      float64
			confidence float64
		}
		var ops []opinion
		for _, ev := range evals {
			if ev.Confidence <= 0 {
				continue
			}
			score, covered := ev.Scores[cat]
			if !covered {
				continue
			}
			ops = append(ops, opinion{ev.EvaluatorID, score, ev.Confidence})
		}
		if len(ops) == 0 {
			continue
		}

		var weightSum, weighted float64
		for _, op := range ops {
			weightSum += op.confidence
			weighted += op.confidence * op.score
		}
		mean := weighted / weightSum
		res.CategoryScores[cat] = mean

		var variance float64
		for _, op := range ops {
			d := op.score - mean
			variance += op.confidence * d * d
		}
		variance /= weightSum
		res.CategoryVariance[cat] = variance
		varianceSum += variance
		scoredCategories++

		if stddev := math.Sqrt(variance); stddev > 0 && len(ops) > 1 {
			for _, op := range ops {
				if math.Abs(op.score-mean) > opts.OutlierSigma*stddev {
					outliers[op.evaluator] = true
				}
			}
		}
	}

	res.AgreementLevel = AgreementLow
	if scoredCategories > 0 {
		meanVariance := varianceSum / float64(scoredCategories)
		switch {
		case meanVariance < opts.HighVariance:
			res.AgreementLevel = AgreementHigh
		case meanVariance < opts.MediumVariance:
			res.AgreementLevel = AgreementMedium
		}
	}

	for id := range outliers {
		res.OutlierEvaluators = append(res.OutlierEvaluators, id)
	}
	sort.Strings(res.OutlierEvaluators)
	return res
}
