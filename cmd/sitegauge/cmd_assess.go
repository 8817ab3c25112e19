package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitegauge/internal/assess"
	"sitegauge/internal/format"
	"sitegauge/internal/report"
)

var assessFlags struct {
	sitePath   string
	configPath string
	jsonOut    bool
	markdown   bool
	outPath    string
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a site artifact once and print the verdict",
	Long: `Assess renders the site artifact, runs the five rubric evaluators and the
perception scorer concurrently, and prints the verdict, category scores,
and the prioritized issue queue. No fixes are applied.`,
	RunE: runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.StringVarP(&assessFlags.sitePath, "site", "f", "", "Path to site artifact JSON (required)")
	f.StringVar(&assessFlags.configPath, "config", "", "Path to engine config YAML")
	f.BoolVar(&assessFlags.jsonOut, "json", false, "Emit the raw assessment as JSON")
	f.BoolVar(&assessFlags.markdown, "markdown", false, "Render the report as Markdown tables")
	f.StringVarP(&assessFlags.outPath, "out", "o", "", "Write the report to a file instead of stdout")
	_ = assessCmd.MarkFlagRequired("site")
}

func runAssess(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(assessFlags.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s, err := loadSite(assessFlags.sitePath)
	if err != nil {
		return err
	}

	engine := assess.NewEngine(cfg)
	a, err := engine.Assess(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("assess: %w", err)
	}

	var rendered string
	switch {
	case assessFlags.jsonOut:
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal assessment: %w", err)
		}
		rendered = string(data) + "\n"
	case assessFlags.markdown:
		rendered = report.FormatAssessment(a, format.Markdown)
	default:
		rendered = report.FormatAssessment(a, format.ASCII)
	}

	if assessFlags.outPath != "" {
		if err := os.WriteFile(assessFlags.outPath, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", assessFlags.outPath)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	}

	if !assessFlags.jsonOut && assessFlags.outPath == "" {
		printVerdict(a.Verdict, a.WeightedScore)
	}
	return nil
}
