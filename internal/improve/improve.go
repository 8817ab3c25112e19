// Package improve drives the closed repair loop: assess, prioritize, apply
// exactly one fix, reassess, decide. The loop is convergence-guaranteed:
// it terminates on target, iteration cap, stagnation, fixer exhaustion, or
// wall-clock budget — never by hanging.
package improve

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"sitegauge/internal/assess"
	"sitegauge/internal/config"
	"sitegauge/internal/fix"
	"sitegauge/internal/logging"
	"sitegauge/internal/rubric"
	"sitegauge/internal/site"
)

// TerminationReason is why a session halted. The values are part of the
// stable reporting interface.
type TerminationReason string

const (
	// TargetReached: weighted score and every category minimum met.
	TargetReached TerminationReason = "TargetReached"
	// MaxIterationsReached: the iteration cap hit first.
	MaxIterationsReached TerminationReason = "MaxIterationsReached"
	// Stagnation: the last N iterations moved the score less than epsilon.
	Stagnation TerminationReason = "Stagnation"
	// FixerExhausted: open issues remain but none has an actionable fixer.
	FixerExhausted TerminationReason = "FixerExhausted"
	// BudgetExceeded: the wall-clock budget ran out mid-session. The
	// session still carries the last fully-completed assessment.
	BudgetExceeded TerminationReason = "BudgetExceeded"
)

// Iteration is one assess-fix cycle in the session's audit trail.
type Iteration struct {
	Assessment *assess.Assessment `json:"assessment"`
	FixApplied *rubric.Issue      `json:"fix_applied,omitempty"`
	FixerKind  string             `json:"fixer_kind,omitempty"`
	Applied    bool               `json:"applied"`
	ScoreBefore float64           `json:"score_before"`
	ScoreAfter  float64           `json:"score_after"`
	Delta       float64           `json:"delta"`
	// Regression marks a fix whose measured delta dropped below the noise
	// tolerance — a bug signal, flagged and kept visible, never hidden.
	Regression bool `json:"regression,omitempty"`
}

// Session is the append-only record of one improvement run.
type Session struct {
	ID                string            `json:"id"`
	SiteName          string            `json:"site_name"`
	TargetScore       float64           `json:"target_score"`
	MinCategoryScore  float64           `json:"min_category_score"`
	MaxIterations     int               `json:"max_iterations"`
	Iterations        []Iteration       `json:"iterations"`
	Final             *assess.Assessment `json:"final"`
	TerminationReason TerminationReason `json:"termination_reason"`
	Elapsed           time.Duration     `json:"elapsed"`
}

// Orchestrator owns the artifact for the duration of a session. It is the
// single writer: evaluators see frozen snapshots, fixers mutate one at a
// time, one per iteration.
type Orchestrator struct {
	Engine   *assess.Engine
	Registry *fix.Registry
	Cfg      *config.Config
}

// NewOrchestrator wires the default engine and fixer registry.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Orchestrator{
		Engine:   assess.NewEngine(cfg),
		Registry: fix.Default(),
		Cfg:      cfg,
	}
}

// Improve runs the repair loop, mutating the artifact in place. Only a
// configuration error or a render failure on the very first assessment is
// fatal; every other condition resolves to a best-effort session.
func (o *Orchestrator) Improve(ctx context.Context, s *site.Site) (*Session, error) {
	if err := o.Cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.New("improve")
	start := time.Now()

	budget := o.Cfg.Budget.Std()
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	sess := &Session{
		ID:               uuid.New().String(),
		SiteName:         s.Name,
		TargetScore:      o.Cfg.TargetScore,
		MinCategoryScore: o.Cfg.MinCategoryScore,
		MaxIterations:    o.Cfg.MaxIterations,
	}
	logger.Info("session started",
		"session_id", sess.ID, "site", s.Name,
		"target", o.Cfg.TargetScore, "max_iterations", o.Cfg.MaxIterations)

	for iter := 0; iter < o.Cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			sess.TerminationReason = BudgetExceeded
			break
		}

		a, err := o.Engine.Assess(ctx, s)
		if err != nil {
			if sess.Final == nil {
				return nil, fmt.Errorf("assess iteration %d: %w", iter, err)
			}
			sess.TerminationReason = BudgetExceeded
			break
		}
		if ctx.Err() != nil {
			// The budget expired mid-assessment; the degraded result
			// (mass abstention) is discarded in favor of the last
			// fully-completed one.
			sess.TerminationReason = BudgetExceeded
			break
		}

		o.recordAssessment(sess, a, logger)

		if o.targetMet(a) {
			sess.TerminationReason = TargetReached
			break
		}
		if iter == o.Cfg.MaxIterations-1 {
			sess.TerminationReason = MaxIterationsReached
			break
		}
		if o.stagnated(sess) {
			sess.TerminationReason = Stagnation
			break
		}

		issue, fixer, ok := o.nextFix(s, a.Issues, logger)
		if !ok {
			sess.TerminationReason = FixerExhausted
			break
		}

		current := &sess.Iterations[len(sess.Iterations)-1]
		current.FixApplied = &issue
		current.FixerKind = fixer.Kind()
		current.Applied = true
		logger.Info("fix applied",
			"session_id", sess.ID, "iteration", iter,
			"kind", issue.Kind, "category", string(issue.Category), "severity", string(issue.Severity))
	}

	if sess.TerminationReason == "" {
		sess.TerminationReason = MaxIterationsReached
	}
	sess.Elapsed = time.Since(start)

	score := 0.0
	if sess.Final != nil {
		score = sess.Final.WeightedScore
	}
	logger.Info("session finished",
		"session_id", sess.ID, "reason", string(sess.TerminationReason),
		"iterations", len(sess.Iterations), "final_score", fmt.Sprintf("%.1f", score))
	return sess, nil
}

// recordAssessment appends the iteration and back-fills the previous
// iteration's after-score and delta, flagging regressions.
func (o *Orchestrator) recordAssessment(sess *Session, a *assess.Assessment, logger *slog.Logger) {
	if n := len(sess.Iterations); n > 0 {
		prev := &sess.Iterations[n-1]
		prev.ScoreAfter = a.WeightedScore
		prev.Delta = a.WeightedScore - prev.ScoreBefore
		if prev.Applied && prev.Delta < -o.Cfg.NoiseTolerance {
			prev.Regression = true
			logger.Warn("fix regressed the score",
				"session_id", sess.ID, "kind", prev.FixerKind,
				"delta", fmt.Sprintf("%.2f", prev.Delta))
		}
	}
	sess.Iterations = append(sess.Iterations, Iteration{
		Assessment:  a,
		ScoreBefore: a.WeightedScore,
		ScoreAfter:  a.WeightedScore,
	})
	sess.Final = a
}

// targetMet checks the halt condition: weighted score at target and every
// scored category above the session minimum.
func (o *Orchestrator) targetMet(a *assess.Assessment) bool {
	if a.WeightedScore < o.Cfg.TargetScore {
		return false
	}
	for _, cat := range rubric.Categories() {
		if a.CategoryScores[cat] < o.Cfg.MinCategoryScore {
			return false
		}
	}
	return true
}

// stagnated reports whether the last StagnationWindow completed iterations
// each moved the score by less than epsilon.
func (o *Orchestrator) stagnated(sess *Session) bool {
	window := o.Cfg.StagnationWindow
	// The newest iteration has no delta yet; look at the ones before it.
	completed := len(sess.Iterations) - 1
	if completed < window {
		return false
	}
	for i := completed - window; i < completed; i++ {
		if math.Abs(sess.Iterations[i].Delta) >= o.Cfg.StagnationEpsilon {
			return false
		}
	}
	return true
}

// nextFix walks the priority queue and applies the first actionable fix.
// An unfixable issue (no registered fixer, or the fixer reports no-op)
// falls through to the next one. Returns false when nothing in the queue
// can make progress.
func (o *Orchestrator) nextFix(s *site.Site, queue []rubric.Issue, logger *slog.Logger) (rubric.Issue, fix.Fixer, bool) {
	for _, issue := range queue {
		fixer, registered := o.Registry.Lookup(issue.Kind)
		if !registered {
			logger.Debug("no fixer registered", "kind", issue.Kind)
			continue
		}
		applied, err := fixer.Apply(s, issue)
		if err != nil {
			// Fixer errors are programming mistakes; surface loudly but
			// keep the session alive on the remaining queue.
			logger.Warn("fixer error", "kind", issue.Kind, "error", err)
			continue
		}
		if !applied {
			logger.Debug("fixer could not apply", "kind", issue.Kind)
			continue
		}
		return issue, fixer, true
	}
	return rubric.Issue{}, nil, false
}
