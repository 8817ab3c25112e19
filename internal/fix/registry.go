// Package fix maps issue kinds to idempotent repair actions on the website
// artifact. Fixers are the only writers of the artifact; the orchestrator
// applies exactly one per iteration so score deltas stay attributable.
package fix

import (
	"fmt"

	"sitegauge/internal/rubric"
	"sitegauge/internal/site"
)

// Fixer repairs exactly one issue kind. Apply must be idempotent: a second
// application to an already-fixed artifact is a no-op reporting false.
// An unfixable issue (missing upstream data) also reports false — an error
// return is reserved for programming mistakes.
type Fixer interface {
	Kind() string
	Apply(s *site.Site, issue rubric.Issue) (applied bool, err error)
}

// Registry holds fixers keyed by issue kind, preserving registration order.
type Registry struct {
	order  []string
	fixers map[string]Fixer
}

// NewRegistry builds a registry from the given fixers. Duplicate kinds are
// a programming error.
func NewRegistry(fixers ...Fixer) (*Registry, error) {
	r := &Registry{fixers: make(map[string]Fixer, len(fixers))}
	for _, f := range fixers {
		if _, dup := r.fixers[f.Kind()]; dup {
			return nil, fmt.Errorf("duplicate fixer for kind %q", f.Kind())
		}
		r.fixers[f.Kind()] = f
		r.order = append(r.order, f.Kind())
	}
	return r, nil
}

// Default returns the registry with every built-in fixer. Kinds with no
// entry here (content rewriting, asset substitution) belong to external
// services registered by the caller.
func Default() *Registry {
	r, err := NewRegistry(
		ContactFixer{},
		MetaDescriptionFixer{},
		MetaDescriptionTuner{},
		CTAFixer{},
		HeadingFixer{},
		HeadingDemoter{},
		HeadingFlattener{},
		AltTextFixer{},
		TitleFixer{},
		NavFixer{},
		PaletteSeeder{},
		PaletteTrimmer{},
		FontTrimmer{},
		TestimonialFixer{},
	)
	if err != nil {
		// Built-in kinds are unique by construction.
		panic(err)
	}
	return r
}

// Lookup returns the fixer for an issue kind.
func (r *Registry) Lookup(kind string) (Fixer, bool) {
	f, ok := r.fixers[kind]
	return f, ok
}

// Register adds an external fixer, e.g. a content-rewriting service bound
// to generic-copy issues.
func (r *Registry) Register(f Fixer) error {
	if _, dup := r.fixers[f.Kind()]; dup {
		return fmt.Errorf("fixer for kind %q already registered", f.Kind())
	}
	r.fixers[f.Kind()] = f
	r.order = append(r.order, f.Kind())
	return nil
}

// Kinds lists registered kinds in registration order.
func (r *Registry) Kinds() []string {
	return append([]string(nil), r.order...)
}
