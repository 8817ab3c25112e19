// Package report renders assessments and improvement sessions for humans.
// The JSON forms of Assessment and Session are the machine interface; this
// package is the terminal and Markdown one.
package report

import (
	"fmt"
	"strings"

	"sitegauge/internal/assess"
	"sitegauge/internal/display"
	"sitegauge/internal/format"
	"sitegauge/internal/improve"
	"sitegauge/internal/rubric"
)

// FormatAssessment produces the human-readable single-assessment report.
func FormatAssessment(a *assess.Assessment, mode format.Mode) string {
	var b strings.Builder

	b.WriteString("=== Site Quality Assessment ===\n")
	b.WriteString(fmt.Sprintf("Site:     %s (artifact v%d)\n", a.SiteName, a.ArtifactVersion))
	b.WriteString(fmt.Sprintf("Verdict:  %s\n", display.Verdict(string(a.Verdict))))
	b.WriteString(fmt.Sprintf("Score:    %s / 100\n", format.FmtScore(a.WeightedScore)))
	b.WriteString(fmt.Sprintf("Agreement: %s (%s)\n\n", string(a.AgreementLevel), display.Agreement(string(a.AgreementLevel))))

	b.WriteString("--- Category scores ---\n")
	tb := format.NewTable(mode)
	tb.Header("Category", "Score")
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	for _, cat := range rubric.Categories() {
		score, scored := a.CategoryScores[cat]
		if !scored {
			tb.Row(string(cat), "abstained")
			continue
		}
		tb.Row(string(cat), format.FmtScore(score))
	}
	b.WriteString(tb.String())
	b.WriteString("\n\n")

	b.WriteString("--- Perception ---\n")
	pt := format.NewTable(mode)
	pt.Header("Dimension", "Score")
	pt.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	pt.Row("First impression", fmt.Sprintf("%.0f / 25", a.Perception.FirstImpression))
	pt.Row("Emotional resonance", fmt.Sprintf("%.0f / 25", a.Perception.EmotionalResonance))
	pt.Row("Cohesion", fmt.Sprintf("%.0f / 25", a.Perception.Cohesion))
	pt.Row("Identity recognition", fmt.Sprintf("%.0f / 25", a.Perception.IdentityRecognition))
	pt.Footer("TOTAL", fmt.Sprintf("%.0f / 100", a.PerceptionTotal))
	b.WriteString(pt.String())
	b.WriteString("\n\n")

	if len(a.Outliers) > 0 {
		b.WriteString(fmt.Sprintf("Outlier evaluators (informational): %s\n\n", strings.Join(a.Outliers, ", ")))
	}

	writeIssues(&b, a.Issues, mode)
	return b.String()
}

// FormatSession produces the human-readable improvement-session report with
// the per-iteration fix table.
func FormatSession(sess *improve.Session, mode format.Mode) string {
	var b strings.Builder

	b.WriteString("=== Site Improvement Session ===\n")
	b.WriteString(fmt.Sprintf("Session:  %s\n", sess.ID))
	b.WriteString(fmt.Sprintf("Site:     %s\n", sess.SiteName))
	b.WriteString(fmt.Sprintf("Target:   %s (category floor %s)\n",
		format.FmtScore(sess.TargetScore), format.FmtScore(sess.MinCategoryScore)))
	b.WriteString(fmt.Sprintf("Halted:   %s\n", display.TerminationWithCode(string(sess.TerminationReason))))
	b.WriteString(fmt.Sprintf("Elapsed:  %s\n\n", format.FmtDuration(sess.Elapsed)))

	b.WriteString("--- Iterations ---\n")
	tb := format.NewTable(mode)
	tb.Header("#", "Fix applied", "Before", "After", "Delta", "")
	tb.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 2, MaxWidth: 40},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
	)
	for i, it := range sess.Iterations {
		fixed := "(none)"
		note := ""
		if it.Applied && it.FixApplied != nil {
			fixed = display.Kind(it.FixApplied.Kind)
			note = format.BoolMark(!it.Regression)
			if it.Regression {
				note += " regression"
			}
		}
		tb.Row(i+1, fixed,
			format.FmtScore(it.ScoreBefore), format.FmtScore(it.ScoreAfter),
			format.FmtDelta(it.Delta), note)
	}
	b.WriteString(tb.String())
	b.WriteString("\n\n")

	if sess.Final != nil {
		first := sess.Iterations[0].ScoreBefore
		b.WriteString(fmt.Sprintf("Score: %s → %s (%s) over %d iteration(s)\n",
			format.FmtScore(first), format.FmtScore(sess.Final.WeightedScore),
			format.FmtDelta(sess.Final.WeightedScore-first), len(sess.Iterations)))

		result := "CONVERGED"
		if !display.Converged(string(sess.TerminationReason)) {
			result = "HALTED"
		}
		b.WriteString(fmt.Sprintf("RESULT: %s — final verdict %s\n\n",
			result, display.Verdict(string(sess.Final.Verdict))))

		writeIssues(&b, sess.Final.Issues, mode)
	}

	return b.String()
}

// writeIssues renders the open-issue queue in priority order.
func writeIssues(b *strings.Builder, issues []rubric.Issue, mode format.Mode) {
	if len(issues) == 0 {
		b.WriteString("No open issues.\n")
		return
	}
	b.WriteString(fmt.Sprintf("--- Open issues (%d, priority order) ---\n", len(issues)))
	tb := format.NewTable(mode)
	tb.Header("", "Severity", "Category", "Issue", "Where")
	tb.Columns(
		format.ColumnConfig{Number: 4, MaxWidth: 50},
		format.ColumnConfig{Number: 5, MaxWidth: 30},
	)
	for _, issue := range issues {
		tb.Row(
			display.SeverityMark(string(issue.Severity)),
			string(issue.Severity),
			string(issue.Category),
			format.Truncate(issue.Description, 50),
			issue.LocationHint,
		)
	}
	b.WriteString(tb.String())
	b.WriteString("\n")
}
