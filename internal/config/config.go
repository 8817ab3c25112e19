// Package config holds every tuned constant of the engine as configuration.
// The blend ratio, variance thresholds, and similarity cutoffs were observed
// empirically, not derived; keeping them here makes them auditable and
// re-tunable instead of hard-coded truths.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sitegauge/internal/rubric"
)

// Config is the full engine configuration.
type Config struct {
	// Weights is the industry-context domain weighting per category.
	// Must sum to 1 across the six categories.
	Weights map[string]float64 `yaml:"weights"`

	// BlendRatio is the category share of the final weighted score; the
	// remainder is the perception share.
	BlendRatio float64 `yaml:"blend_ratio"`

	// CategoryMinimums is the per-category floor for the Excellent tier.
	CategoryMinimums map[string]float64 `yaml:"category_minimums"`

	// Agreement variance thresholds in 0-10 score space.
	AgreementHighVariance   float64 `yaml:"agreement_high_variance"`
	AgreementMediumVariance float64 `yaml:"agreement_medium_variance"`

	// OutlierSigma flags an evaluator deviating more than this many
	// standard deviations from a category's consensus.
	OutlierSigma float64 `yaml:"outlier_sigma"`

	// DedupSimilarity is the token-Jaccard threshold for merging issues.
	DedupSimilarity float64 `yaml:"dedup_similarity"`

	// EvaluatorTimeout bounds a single evaluator run; a timeout is
	// treated identically to confidence 0.
	EvaluatorTimeout Duration `yaml:"evaluator_timeout"`

	// Improvement session defaults.
	TargetScore       float64  `yaml:"target_score"`
	MinCategoryScore  float64  `yaml:"min_category_score"`
	MaxIterations     int      `yaml:"max_iterations"`
	StagnationWindow  int      `yaml:"stagnation_window"`
	StagnationEpsilon float64  `yaml:"stagnation_epsilon"`
	NoiseTolerance    float64  `yaml:"noise_tolerance"`
	Budget            Duration `yaml:"budget"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "90s"
// or "2m".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"90s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the engine defaults: equal category weights, a 0.75/0.25
// blend, and conservative loop bounds.
func Default() *Config {
	weights := make(map[string]float64)
	mins := make(map[string]float64)
	n := float64(len(rubric.Categories()))
	for _, c := range rubric.Categories() {
		weights[string(c)] = 1 / n
		mins[string(c)] = 7.0
	}
	return &Config{
		Weights:                 weights,
		BlendRatio:              0.75,
		CategoryMinimums:        mins,
		AgreementHighVariance:   1.0,
		AgreementMediumVariance: 4.0,
		OutlierSigma:            2.0,
		DedupSimilarity:         0.5,
		EvaluatorTimeout:        Duration(10 * time.Second),
		TargetScore:             75,
		MinCategoryScore:        7.0,
		MaxIterations:           10,
		StagnationWindow:        3,
		StagnationEpsilon:       0.5,
		NoiseTolerance:          1.0,
		Budget:                  Duration(2 * time.Minute),
	}
}

// Load reads a YAML config file over the defaults. Missing fields keep
// their default values; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidationError is the fatal configuration error rejected before a
// session starts. All other failure modes resolve to a best-effort result.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration. It returns a *ValidationError on the
// first violation.
func (c *Config) Validate() error {
	var sum float64
	for _, cat := range rubric.Categories() {
		w, ok := c.Weights[string(cat)]
		if !ok {
			return &ValidationError{Field: "weights", Reason: fmt.Sprintf("missing category %s", cat)}
		}
		if w < 0 {
			return &ValidationError{Field: "weights", Reason: fmt.Sprintf("negative weight for %s", cat)}
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		return &ValidationError{Field: "weights", Reason: fmt.Sprintf("must sum to 1, got %.4f", sum)}
	}
	if c.BlendRatio < 0 || c.BlendRatio > 1 {
		return &ValidationError{Field: "blend_ratio", Reason: "must be in [0, 1]"}
	}
	if c.TargetScore < 0 || c.TargetScore > 100 {
		return &ValidationError{Field: "target_score", Reason: "must be in [0, 100]"}
	}
	if c.MinCategoryScore < 0 || c.MinCategoryScore > 10 {
		return &ValidationError{Field: "min_category_score", Reason: "must be in [0, 10]"}
	}
	if c.MaxIterations < 1 {
		return &ValidationError{Field: "max_iterations", Reason: "must be at least 1"}
	}
	if c.StagnationWindow < 1 {
		return &ValidationError{Field: "stagnation_window", Reason: "must be at least 1"}
	}
	if c.AgreementHighVariance <= 0 || c.AgreementMediumVariance <= c.AgreementHighVariance {
		return &ValidationError{Field: "agreement_medium_variance", Reason: "thresholds must satisfy 0 < high < medium"}
	}
	if c.DedupSimilarity <= 0 || c.DedupSimilarity > 1 {
		return &ValidationError{Field: "dedup_similarity", Reason: "must be in (0, 1]"}
	}
	return nil
}

// CategoryWeights converts the YAML string keys to rubric categories.
func (c *Config) CategoryWeights() map[rubric.Category]float64 {
	out := make(map[rubric.Category]float64, len(c.Weights))
	for k, v := range c.Weights {
		out[rubric.Category(k)] = v
	}
	return out
}

// CategoryMins converts the YAML string keys to rubric categories, filling
// unlisted categories with MinCategoryScore.
func (c *Config) CategoryMins() map[rubric.Category]float64 {
	out := make(map[rubric.Category]float64, len(rubric.Categories()))
	for _, cat := range rubric.Categories() {
		if v, ok := c.CategoryMinimums[string(cat)]; ok {
			out[cat] = v
		} else {
			out[cat] = c.MinCategoryScore
		}
	}
	return out
}
