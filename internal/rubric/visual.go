package rubric

import (
	"fmt"
	"strings"

	"sitegauge/internal/site"
)

// VisualEvaluator scores visual craft: palette discipline, typography,
// imagery presence, and the visual anchor of the landing page.
type VisualEvaluator struct{}

var _ Evaluator = VisualEvaluator{}

func (VisualEvaluator) ID() string { return "visual" }

func (VisualEvaluator) Categories() []Category { return []Category{Visual, Structure} }

func (e VisualEvaluator) Evaluate(snap *site.Snapshot) Evaluation {
	pages, err := parseSnapshot(snap)
	if err != nil {
		return abstain(e.ID(), err.Error())
	}
	sc := newScorecard(e.ID(), e.Categories())

	palette := countCSSVariables(snap.CSS, "--color-")
	switch {
	case palette == 0:
		sc.deduct(Visual, 3, KindMissingPalette, SeverityHigh,
			"stylesheet defines no color palette", "site")
	case palette > 5:
		sc.deduct(Visual, 1.5, KindPaletteOverload, SeverityMedium,
			fmt.Sprintf("palette carries %d colors; more than 5 reads as noise", palette), "site")
	}

	if fonts := countFontFamilies(snap.CSS); fonts > 2 {
		sc.deduct(Visual, 1.5, KindFontOverload, SeverityMedium,
			fmt.Sprintf("%d font families in use; cap is 2", fonts), "site")
	}

	images := 0
	for _, p := range pages {
		images += len(findAll(p.Root, "img"))
	}
	if images == 0 {
		sc.deduct(Visual, 2, KindNoImagery, SeverityMedium,
			"no imagery anywhere on the site", "site")
	}

	// The landing page needs a visual anchor; a bare text column reads as
	// an unstyled template.
	home := pages[0]
	if len(findAll(home.Root, "header")) == 0 {
		sc.deduct(Structure, 1, KindMissingH1, SeverityLow,
			"landing page has no hero header", home.Path)
	}

	return sc.evaluation(1.0)
}

// countCSSVariables counts custom property declarations with the given prefix.
func countCSSVariables(css, prefix string) int {
	return strings.Count(css, prefix)
}

// countFontFamilies counts the families listed in the first font-family
// declaration. Zero means no declaration at all.
func countFontFamilies(css string) int {
	j := strings.Index(css, "font-family:")
	if j < 0 {
		return 0
	}
	decl := css[j+len("font-family:"):]
	if end := strings.Index(decl, ";"); end >= 0 {
		decl = decl[:end]
	}
	return strings.Count(decl, ",") + 1
}
