package report_test

import (
	"strings"
	"testing"
	"time"

	"sitegauge/internal/assess"
	"sitegauge/internal/consensus"
	"sitegauge/internal/format"
	"sitegauge/internal/improve"
	"sitegauge/internal/perception"
	"sitegauge/internal/report"
	"sitegauge/internal/rubric"
	"sitegauge/internal/verdict"
)

func sampleAssessment() *assess.Assessment {
	return &assess.Assessment{
		SiteName:        "Acme Plumbing",
		ArtifactVersion: 3,
		WeightedScore:   68.4,
		Verdict:         verdict.Good,
		CategoryScores: map[rubric.Category]float64{
			rubric.Visual:          8.0,
			rubric.Structure:       7.5,
			rubric.Content:         6.0,
			rubric.Persuasion:      4.0,
			rubric.Discoverability: 7.0,
			// Distinctiveness abstained
		},
		Perception:      perception.Score{FirstImpression: 20, EmotionalResonance: 10, Cohesion: 25, IdentityRecognition: 15},
		PerceptionTotal: 70,
		AgreementLevel:  consensus.AgreementMedium,
		Outliers:        []string{"visual"},
		Issues: []rubric.Issue{
			{
				ID: "persuasion/missing-cta/1", Kind: rubric.KindMissingCTA,
				Category: rubric.Persuasion, Severity: rubric.SeverityCritical,
				Description: "no call to action anywhere on the site", LocationHint: "/",
			},
		},
	}
}

func TestFormatAssessment_ASCII(t *testing.T) {
	out := report.FormatAssessment(sampleAssessment(), format.ASCII)

	for _, want := range []string{
		"=== Site Quality Assessment ===",
		"Acme Plumbing (artifact v3)",
		"Verdict:  Good",
		"Score:    68.4 / 100",
		"abstained", // the unscored Distinctiveness row
		"TOTAL",
		"70 / 100",
		"Outlier evaluators (informational): visual",
		"Open issues (1, priority order)",
		"Critical",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatAssessment_MarkdownTables(t *testing.T) {
	out := report.FormatAssessment(sampleAssessment(), format.Markdown)
	if !strings.Contains(out, "| Category | Score |") {
		t.Errorf("markdown header row missing:\n%s", out)
	}
}

func TestFormatSession(t *testing.T) {
	a := sampleAssessment()
	ctaIssue := a.Issues[0]
	sess := &improve.Session{
		ID:               "s-1",
		SiteName:         "Acme Plumbing",
		TargetScore:      75,
		MinCategoryScore: 7,
		MaxIterations:    10,
		Iterations: []improve.Iteration{
			{Assessment: a, FixApplied: &ctaIssue, FixerKind: ctaIssue.Kind, Applied: true,
				ScoreBefore: 61.0, ScoreAfter: 68.4, Delta: 7.4},
			{Assessment: a, ScoreBefore: 68.4, ScoreAfter: 68.4},
		},
		Final:             a,
		TerminationReason: improve.FixerExhausted,
		Elapsed:           95 * time.Second,
	}
	out := report.FormatSession(sess, format.ASCII)

	for _, want := range []string{
		"=== Site Improvement Session ===",
		"Session:  s-1",
		"no actionable fix remains (FixerExhausted)",
		"1m 35s",
		"Missing call to action",
		"+7.4",
		"Score: 61.0 → 68.4 (+7.4) over 2 iteration(s)",
		"RESULT: HALTED",
		"final verdict Good",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSession_ConvergedMarksResult(t *testing.T) {
	a := sampleAssessment()
	sess := &improve.Session{
		ID:       "s-2",
		SiteName: "Acme Plumbing",
		Iterations: []improve.Iteration{
			{Assessment: a, ScoreBefore: 80, ScoreAfter: 80},
		},
		Final:             a,
		TerminationReason: improve.TargetReached,
	}
	out := report.FormatSession(sess, format.ASCII)
	if !strings.Contains(out, "RESULT: CONVERGED") {
		t.Errorf("converged session not marked:\n%s", out)
	}
}
