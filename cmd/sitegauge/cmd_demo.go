package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitegauge/internal/assess"
	"sitegauge/internal/config"
	"sitegauge/internal/format"
	"sitegauge/internal/improve"
	"sitegauge/internal/report"
	"sitegauge/internal/site"
)

var demoFlags struct {
	sitePath string
	outPath  string
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full assess-fix loop on a bundled flawed site",
	Long: `Demo builds a deliberately flawed small-business site (missing meta
descriptions, no contact block, no call to action), assesses it, runs the
improvement loop, and prints the before/after comparison.`,
	RunE: runDemo,
}

func init() {
	f := demoCmd.Flags()
	f.StringVarP(&demoFlags.sitePath, "site", "f", "", "Use a site artifact JSON instead of the bundled one")
	f.StringVarP(&demoFlags.outPath, "out", "o", "", "Write the improved artifact to a file")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	var s *site.Site
	if demoFlags.sitePath != "" {
		loaded, err := loadSite(demoFlags.sitePath)
		if err != nil {
			return err
		}
		s = loaded
	} else {
		s = demoSite()
	}

	cfg := config.Default()
	out := cmd.OutOrStdout()

	engine := assess.NewEngine(cfg)
	before, err := engine.Assess(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("initial assessment: %w", err)
	}
	bold := color.New(color.Bold)
	fmt.Fprintln(out, bold.Sprint("Before:"))
	fmt.Fprint(out, report.FormatAssessment(before, format.ASCII))
	fmt.Fprintln(out)

	o := improve.NewOrchestrator(cfg)
	sess, err := o.Improve(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}

	fmt.Fprintln(out, bold.Sprint("Session:"))
	fmt.Fprint(out, report.FormatSession(sess, format.ASCII))

	if demoFlags.outPath != "" {
		if err := s.Save(demoFlags.outPath); err != nil {
			return fmt.Errorf("save improved artifact: %w", err)
		}
		fmt.Fprintf(out, "Improved artifact: %s\n", demoFlags.outPath)
	}

	if sess.Final != nil {
		printVerdict(sess.Final.Verdict, sess.Final.WeightedScore)
	}
	return nil
}

// demoSite is a plumbing company site with deliberate, fixable defects. The
// upstream business data (contact, testimonial) is present so the repair
// loop has material to work with.
func demoSite() *site.Site {
	return &site.Site{
		Name:     "Acme Plumbing",
		Tagline:  "Fast, honest plumbing",
		Industry: "plumbing",
		Pages: []site.Page{
			{
				Path:  "/",
				Title: "Acme Plumbing",
				Blocks: []site.Block{
					{Kind: site.BlockHero, Text: "Acme Plumbing",
						ImageSrc: "/img/team.jpg", ImageAlt: "The Acme crew on site"},
					{Kind: site.BlockParagraph, Text: "Acme Plumbing serves the whole metro area with reliable, trusted repairs. Our proven team guarantees quality results on every job, from leaky faucets to full repipes, and we arrive on time with a written quote."},
				},
			},
			{
				Path:  "/services",
				Title: "Acme Plumbing — Services",
				Blocks: []site.Block{
					{Kind: site.BlockHeading, Level: 1, Text: "Services"},
					{Kind: site.BlockParagraph, Text: "Drain cleaning, water heater installation, emergency repairs, and remodel rough-ins. Every visit ends with a flat, written quote so you never see a surprise on the invoice. Licensed, insured, and backed by a two-year guarantee."},
					{Kind: site.BlockImage, ImageSrc: "/img/water-heater.jpg", ImageAlt: "Tankless water heater installation"},
				},
			},
		},
		Style: site.Stylesheet{
			Palette: []string{"#1f3a5f", "#f4f1ea"},
			Fonts:   []string{"Georgia"},
		},
		Contact: &site.ContactInfo{
			Phone:   "555-0100",
			Email:   "help@acmeplumbing.example",
			Address: "41 Pipe St, Springfield",
		},
		Testimonials: []site.Testimonial{
			{Text: "Fixed our burst pipe in an hour. Absolutely delighted.", Author: "R. Alvarez"},
		},
	}
}
