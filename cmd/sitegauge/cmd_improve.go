package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"sitegauge/internal/format"
	"sitegauge/internal/improve"
	"sitegauge/internal/report"
)

var improveFlags struct {
	sitePath      string
	configPath    string
	outPath       string
	reportPath    string
	target        float64
	maxIterations int
	jsonOut       bool
	markdown      bool
}

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Run the assess-fix loop on a site artifact until it converges",
	Long: `Improve runs the closed repair loop: assess the artifact, apply the single
highest-priority actionable fix, reassess, and repeat until the target score
is reached or the loop halts (iteration cap, stagnation, fixer exhaustion,
or budget). The improved artifact is written back out with every applied fix
recorded in the session report.`,
	RunE: runImprove,
}

func init() {
	f := improveCmd.Flags()
	f.StringVarP(&improveFlags.sitePath, "site", "f", "", "Path to site artifact JSON (required)")
	f.StringVar(&improveFlags.configPath, "config", "", "Path to engine config YAML")
	f.StringVarP(&improveFlags.outPath, "out", "o", "", "Path for the improved artifact (default: overwrite input)")
	f.StringVar(&improveFlags.reportPath, "report", "", "Write the session report to a file")
	f.Float64Var(&improveFlags.target, "target", 0, "Target weighted score, 0-100 (0 = config default)")
	f.IntVar(&improveFlags.maxIterations, "max-iterations", 0, "Iteration cap (0 = config default)")
	f.BoolVar(&improveFlags.jsonOut, "json", false, "Emit the raw session as JSON")
	f.BoolVar(&improveFlags.markdown, "markdown", false, "Render the report as Markdown tables")
	_ = improveCmd.MarkFlagRequired("site")
}

func runImprove(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(improveFlags.configPath)
	if err != nil {
		return err
	}
	if improveFlags.target > 0 {
		cfg.TargetScore = improveFlags.target
	}
	if improveFlags.maxIterations > 0 {
		cfg.MaxIterations = improveFlags.maxIterations
	}
	s, err := loadSite(improveFlags.sitePath)
	if err != nil {
		return err
	}

	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	sp.Suffix = fmt.Sprintf(" Improving %s (target %.0f)...", s.Name, cfg.TargetScore)
	sp.Start()

	o := improve.NewOrchestrator(cfg)
	sess, err := o.Improve(cmd.Context(), s)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}

	outPath := improveFlags.outPath
	if outPath == "" {
		outPath = improveFlags.sitePath
	}
	if err := s.Save(outPath); err != nil {
		return fmt.Errorf("save improved artifact: %w", err)
	}

	var rendered string
	switch {
	case improveFlags.jsonOut:
		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		rendered = string(data) + "\n"
	case improveFlags.markdown:
		rendered = report.FormatSession(sess, format.Markdown)
	default:
		rendered = report.FormatSession(sess, format.ASCII)
	}

	if improveFlags.reportPath != "" {
		if err := os.WriteFile(improveFlags.reportPath, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", improveFlags.reportPath)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Improved artifact: %s\n", outPath)
	if sess.Final != nil && !improveFlags.jsonOut {
		printVerdict(sess.Final.Verdict, sess.Final.WeightedScore)
	}
	return nil
}
