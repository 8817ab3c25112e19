package main

import (
	"fmt"

	"github.com/fatih/color"

	"sitegauge/internal/config"
	"sitegauge/internal/site"
	"sitegauge/internal/verdict"
)

// loadConfig reads the config file if given, otherwise returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// loadSite reads a site artifact from a JSON file.
func loadSite(path string) (*site.Site, error) {
	s, err := site.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load site artifact: %w", err)
	}
	return s, nil
}

// verdictColor maps a verdict tier to its terminal color.
func verdictColor(v verdict.Verdict) *color.Color {
	switch v {
	case verdict.WorldClass:
		return color.New(color.FgCyan, color.Bold)
	case verdict.Excellent:
		return color.New(color.FgGreen, color.Bold)
	case verdict.Good:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printVerdict(v verdict.Verdict, score float64) {
	c := verdictColor(v)
	fmt.Printf("Verdict: %s (%.1f/100)\n", c.Sprint(string(v)), score)
}
