// Package rubric defines the scoring vocabulary (categories, severities,
// issues) and the five specialist evaluators. Each evaluator is a pure
// function of a rendered snapshot: same snapshot in, same evaluation out.
package rubric

import "sitegauge/internal/site"

// Category is the closed set of quality categories.
type Category string

const (
	Visual          Category = "Visual"
	Structure       Category = "Structure"
	Content         Category = "Content"
	Persuasion      Category = "Persuasion"
	Discoverability Category = "Discoverability"
	Distinctiveness Category = "Distinctiveness"
)

// Categories returns all categories in canonical order.
func Categories() []Category {
	return []Category{Visual, Structure, Content, Persuasion, Discoverability, Distinctiveness}
}

// Severity ranks how urgently an issue needs repair.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Rank returns the sort weight for a severity; higher repairs first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Issue kinds. Kind is the routing key into the fixer registry: one kind,
// one fixer. Kinds with no registered fixer (content rewriting, asset
// substitution) are resolved by external services or left for a human.
const (
	KindMissingTitle           = "missing-title"
	KindMissingMetaDescription = "missing-meta-description"
	KindShortMetaDescription   = "short-meta-description"
	KindMissingH1              = "missing-h1"
	KindMultipleH1             = "multiple-h1"
	KindHeadingSkip            = "heading-skip"
	KindMissingNav             = "missing-nav"
	KindMissingCTA             = "missing-cta"
	KindMissingContact         = "missing-contact"
	KindMissingSocialProof     = "missing-social-proof"
	KindMissingAltText         = "missing-alt-text"
	KindThinContent            = "thin-content"
	KindGenericCopy            = "generic-copy"
	KindDuplicateCopy          = "duplicate-copy"
	KindPlaceholderAsset       = "placeholder-asset"
	KindPaletteOverload        = "palette-overload"
	KindMissingPalette         = "missing-palette"
	KindFontOverload           = "font-overload"
	KindNoImagery              = "no-imagery"
	KindUnreadableSnapshot     = "unreadable-snapshot"
)

// Issue is one concrete quality defect surfaced by an evaluator. A score
// below 10 is never reported without at least one issue explaining it;
// the fixer pipeline has nothing to act on otherwise.
type Issue struct {
	ID              string   `json:"id"`
	Kind            string   `json:"kind"`
	Category        Category `json:"category"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
	LocationHint    string   `json:"location_hint,omitempty"` // page path or "site"
	SourceEvaluator string   `json:"source_evaluator"`
}

// Evaluation is the immutable output of one evaluator for one snapshot.
// Scores holds only the categories the evaluator covers; absent categories
// are abstentions, not zeros. Confidence 0 means the evaluator could not
// read the snapshot and abstains from every category.
type Evaluation struct {
	EvaluatorID string               `json:"evaluator_id"`
	Scores      map[Category]float64 `json:"scores"` // 0-10 per covered category
	Issues      []Issue              `json:"issues"`
	Confidence  float64              `json:"confidence"` // 0-1
}

// Evaluator scores a snapshot against one specialist rubric.
type Evaluator interface {
	ID() string
	Categories() []Category
	Evaluate(snap *site.Snapshot) Evaluation
}

// DefaultEvaluators returns the five specialist evaluators in canonical order.
func DefaultEvaluators() []Evaluator {
	return []Evaluator{
		StructureEvaluator{},
		VisualEvaluator{},
		PersuasionEvaluator{},
		DiscoverabilityEvaluator{},
		DistinctivenessEvaluator{},
	}
}

// scorecard accumulates deductions for one evaluator run. It enforces the
// score/issue pairing: every deduction below 10 carries an issue.
type scorecard struct {
	evaluatorID string
	scores      map[Category]float64
	issues      []Issue
	seq         int
}

func newScorecard(evaluatorID string, covered []Category) *scorecard {
	sc := &scorecard{evaluatorID: evaluatorID, scores: make(map[Category]float64, len(covered))}
	for _, c := range covered {
		sc.scores[c] = 10
	}
	return sc
}

// deduct subtracts points from a category and records the mandatory issue.
func (sc *scorecard) deduct(cat Category, points float64, kind string, sev Severity, desc, location string) {
	sc.seq++
	sc.scores[cat] -= points
	if sc.scores[cat] < 0 {
		sc.scores[cat] = 0
	}
	sc.issues = append(sc.issues, Issue{
		ID:              issueID(sc.evaluatorID, kind, sc.seq),
		Kind:            kind,
		Category:        cat,
		Severity:        sev,
		Description:     desc,
		LocationHint:    location,
		SourceEvaluator: sc.evaluatorID,
	})
}

func (sc *scorecard) evaluation(confidence float64) Evaluation {
	return Evaluation{
		EvaluatorID: sc.evaluatorID,
		Scores:      sc.scores,
		Issues:      sc.issues,
		Confidence:  confidence,
	}
}

// abstain is the failure-mode evaluation: confidence 0, no scores, one
// issue recording why the snapshot could not be read.
func abstain(evaluatorID, reason string) Evaluation {
	return Evaluation{
		EvaluatorID: evaluatorID,
		Confidence:  0,
		Issues: []Issue{{
			ID:              issueID(evaluatorID, KindUnreadableSnapshot, 1),
			Kind:            KindUnreadableSnapshot,
			Category:        Structure,
			Severity:        SeverityLow,
			Description:     reason,
			LocationHint:    "site",
			SourceEvaluator: evaluatorID,
		}},
	}
}
