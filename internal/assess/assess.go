// Package assess runs one full quality assessment: the five rubric
// evaluators and the perception scorer fan out concurrently over one
// immutable snapshot, then consensus, verdict, and triage reduce their
// outputs into a FinalAssessment.
package assess

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sitegauge/internal/config"
	"sitegauge/internal/consensus"
	"sitegauge/internal/logging"
	"sitegauge/internal/perception"
	"sitegauge/internal/rubric"
	"sitegauge/internal/site"
	"sitegauge/internal/triage"
	"sitegauge/internal/verdict"
)

// Assessment is the final per-snapshot verdict: the stable reporting
// contract consumed by dashboards and CI gates. Field names and the
// verdict enum values do not change.
type Assessment struct {
	SiteName        string                      `json:"site_name"`
	ArtifactVersion int                         `json:"artifact_version"`
	WeightedScore   float64                     `json:"weighted_score"`
	Verdict         verdict.Verdict             `json:"verdict"`
	CategoryScores  map[rubric.Category]float64 `json:"category_scores"`
	Perception      perception.Score            `json:"perception"`
	PerceptionTotal float64                     `json:"perception_total"`
	AgreementLevel  consensus.AgreementLevel    `json:"agreement_level"`
	Outliers        []string                    `json:"outlier_evaluators,omitempty"`
	// Issues is the deduplicated, priority-ordered repair queue.
	Issues []rubric.Issue `json:"issues"`
	// Evaluations keeps the raw per-evaluator outputs for the audit trail.
	Evaluations []rubric.Evaluation `json:"evaluations"`
}

// Engine wires the evaluators, renderer, and configuration for assessment.
type Engine struct {
	Evaluators []rubric.Evaluator
	Renderer   site.Renderer
	Cfg        *config.Config
}

// NewEngine returns an engine with the five default evaluators and the
// static renderer. Callers substitute either through the struct fields.
func NewEngine(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		Evaluators: rubric.DefaultEvaluators(),
		Renderer:   site.StaticRenderer{},
		Cfg:        cfg,
	}
}

// Assess renders the artifact and assesses the snapshot.
func (e *Engine) Assess(ctx context.Context, s *site.Site) (*Assessment, error) {
	snap, err := e.Renderer.Render(s)
	if err != nil {
		return nil, fmt.Errorf("render artifact: %w", err)
	}
	return e.AssessSnapshot(ctx, snap)
}

// AssessSnapshot runs all scorers concurrently over the snapshot and
// reduces their outputs. A slow or panicking evaluator abstains; it never
// drops its categories silently and never fails the assessment.
func (e *Engine) AssessSnapshot(ctx context.Context, snap *site.Snapshot) (*Assessment, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	logger := logging.New("assess")

	evaluations := make([]rubric.Evaluation, len(e.Evaluators))
	var perc perception.Score

	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range e.Evaluators {
		g.Go(func() error {
			evaluations[i] = runEvaluator(gctx, ev, snap, e.Cfg.EvaluatorTimeout.Std())
			return nil
		})
	}
	g.Go(func() error {
		perc = runPerception(gctx, snap, e.Cfg.EvaluatorTimeout.Std())
		return nil
	})
	_ = g.Wait() // failures are abstentions, captured per evaluation

	for _, ev := range evaluations {
		if ev.Confidence <= 0 {
			logger.Warn("evaluator abstained", "evaluator", ev.EvaluatorID, "site", snap.SiteName, "version", snap.Version)
		}
	}

	cons := consensus.Combine(evaluations, consensus.Options{
		HighVariance:   e.Cfg.AgreementHighVariance,
		MediumVariance: e.Cfg.AgreementMediumVariance,
		OutlierSigma:   e.Cfg.OutlierSigma,
	})

	cls := verdict.Classify(cons, perc.Total(), verdict.Options{
		Weights:     e.Cfg.CategoryWeights(),
		BlendRatio:  e.Cfg.BlendRatio,
		CategoryMin: e.Cfg.CategoryMins(),
	})

	var all []rubric.Issue
	for _, ev := range evaluations {
		all = append(all, ev.Issues...)
	}
	deduped := triage.Dedupe(all, e.Cfg.DedupSimilarity)
	queue := triage.Prioritize(deduped, categoryDeficits(cons, e.Cfg))

	logger.Info("assessment complete",
		"site", snap.SiteName, "version", snap.Version,
		"weighted_score", fmt.Sprintf("%.1f", cls.WeightedScore),
		"verdict", string(cls.Verdict),
		"agreement", string(cons.AgreementLevel),
		"open_issues", len(queue))

	return &Assessment{
		SiteName:        snap.SiteName,
		ArtifactVersion: snap.Version,
		WeightedScore:   cls.WeightedScore,
		Verdict:         cls.Verdict,
		CategoryScores:  cons.CategoryScores,
		Perception:      perc,
		PerceptionTotal: perc.Total(),
		AgreementLevel:  cons.AgreementLevel,
		Outliers:        cons.OutlierEvaluators,
		Issues:          queue,
		Evaluations:     evaluations,
	}, nil
}

// categoryDeficits measures how far each category sits below its minimum.
// Larger deficits pull their issues up the repair queue.
func categoryDeficits(cons consensus.Result, cfg *config.Config) map[rubric.Category]float64 {
	mins := cfg.CategoryMins()
	out := make(map[rubric.Category]float64, len(mins))
	for cat, min := range mins {
		score, scored := cons.CategoryScores[cat]
		if !scored {
			out[cat] = min // unscored counts as fully deficient
			continue
		}
		if d := min - score; d > 0 {
			out[cat] = d
		}
	}
	return out
}

// runEvaluator executes one evaluator with a timeout. Evaluators are pure
// functions, so no retry: a timeout is identical to confidence 0.
func runEvaluator(ctx context.Context, ev rubric.Evaluator, snap *site.Snapshot, timeout time.Duration) rubric.Evaluation {
	done := make(chan rubric.Evaluation, 1)
	go func() {
		done <- ev.Evaluate(snap)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case evaluation := <-done:
		return evaluation
	case <-timer.C:
		return timeoutEvaluation(ev, fmt.Sprintf("evaluator timed out after %s", timeout))
	case <-ctx.Done():
		return timeoutEvaluation(ev, ctx.Err().Error())
	}
}

// timeoutEvaluation is the abstention recorded for a timed-out or cancelled
// evaluator. The reason lands in the audit trail as a low-severity issue.
func timeoutEvaluation(ev rubric.Evaluator, reason string) rubric.Evaluation {
	return rubric.Evaluation{
		EvaluatorID: ev.ID(),
		Confidence:  0,
		Issues: []rubric.Issue{{
			ID:              ev.ID() + "/" + rubric.KindUnreadableSnapshot + "/timeout",
			Kind:            rubric.KindUnreadableSnapshot,
			Category:        rubric.Structure,
			Severity:        rubric.SeverityLow,
			Description:     reason,
			LocationHint:    "site",
			SourceEvaluator: ev.ID(),
		}},
	}
}

// runPerception executes the perception scorer with the same timeout
// semantics; on timeout the perception contribution is zero.
func runPerception(ctx context.Context, snap *site.Snapshot, timeout time.Duration) perception.Score {
	done := make(chan perception.Score, 1)
	go func() {
		done <- perception.Perceive(snap)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s := <-done:
		return s
	case <-timer.C:
		return perception.Score{}
	case <-ctx.Done():
		return perception.Score{}
	}
}
