package rubric

import (
	"fmt"
	"strings"

	"sitegauge/internal/site"
)

// DistinctivenessEvaluator scores how far the site has moved from its
// template origins: stock phrasing, cloned copy between pages, and
// placeholder imagery all read as "nobody finished this".
type DistinctivenessEvaluator struct{}

var _ Evaluator = DistinctivenessEvaluator{}

func (DistinctivenessEvaluator) ID() string { return "distinctiveness" }

func (DistinctivenessEvaluator) Categories() []Category {
	return []Category{Distinctiveness, Content}
}

// templatePhrases are stock strings that survive from unedited templates.
var templatePhrases = []string{
	"lorem ipsum",
	"welcome to our website",
	"we are a company",
	"your trusted partner",
	"quality services at affordable prices",
	"insert text here",
}

func (e DistinctivenessEvaluator) Evaluate(snap *site.Snapshot) Evaluation {
	pages, err := parseSnapshot(snap)
	if err != nil {
		return abstain(e.ID(), err.Error())
	}
	sc := newScorecard(e.ID(), e.Categories())

	var found []string
	pageTokens := make([][]string, len(pages))
	placeholderHit := ""
	for i, p := range pages {
		text := strings.ToLower(textContent(body(p.Root)))
		for _, phrase := range templatePhrases {
			if strings.Contains(text, phrase) {
				found = append(found, phrase)
			}
		}
		pageTokens[i] = strings.Fields(text)
		for _, img := range findAll(p.Root, "img") {
			src := strings.ToLower(attr(img, "src"))
			if strings.Contains(src, "placeholder") || strings.Contains(src, "stock-") {
				placeholderHit = p.Path
			}
		}
	}

	if len(found) > 0 {
		sc.deduct(Distinctiveness, 2, KindGenericCopy, SeverityHigh,
			fmt.Sprintf("template phrasing survives: %q", found[0]), "site")
	}

	// Near-identical copy on two pages means the generator cloned a page
	// instead of writing one.
	if dupA, dupB, sim := mostSimilarPair(pages, pageTokens); sim > 0.8 {
		sc.deduct(Distinctiveness, 2, KindDuplicateCopy, SeverityMedium,
			fmt.Sprintf("pages %s and %s share %.0f%% of their copy", dupA, dupB, sim*100), dupA)
		sc.deduct(Content, 1, KindDuplicateCopy, SeverityLow,
			fmt.Sprintf("duplicated copy between %s and %s dilutes the message", dupA, dupB), dupA)
	}

	if placeholderHit != "" {
		sc.deduct(Distinctiveness, 1.5, KindPlaceholderAsset, SeverityMedium,
			"placeholder imagery was never replaced with client assets", placeholderHit)
	}

	return sc.evaluation(1.0)
}

// mostSimilarPair returns the page pair with the highest token overlap.
func mostSimilarPair(pages []pageDOM, tokens [][]string) (string, string, float64) {
	bestA, bestB, best := "", "", 0.0
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			sim := tokenOverlap(tokens[i], tokens[j])
			if sim > best {
				bestA, bestB, best = pages[i].Path, pages[j].Path, sim
			}
		}
	}
	return bestA, bestB, best
}

// tokenOverlap is the Jaccard coefficient of two token multisets, treated
// as sets.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}
	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
