package rubric

import (
	"fmt"
	"strings"

	"sitegauge/internal/site"
)

// DiscoverabilityEvaluator scores search-engine visibility: meta
// descriptions, titles, alt text, and internal linking.
type DiscoverabilityEvaluator struct{}

var _ Evaluator = DiscoverabilityEvaluator{}

func (DiscoverabilityEvaluator) ID() string { return "discoverability" }

func (DiscoverabilityEvaluator) Categories() []Category {
	return []Category{Discoverability, Content}
}

func (e DiscoverabilityEvaluator) Evaluate(snap *site.Snapshot) Evaluation {
	pages, err := parseSnapshot(snap)
	if err != nil {
		return abstain(e.ID(), err.Error())
	}
	sc := newScorecard(e.ID(), e.Categories())

	var noMeta, badMeta, noTitle, noAlt []string
	internalLinks := 0
	for _, p := range pages {
		meta := metaDescription(p.Root)
		switch {
		case meta == "":
			noMeta = append(noMeta, p.Path)
		case len(meta) < 50 || len(meta) > 160:
			badMeta = append(badMeta, p.Path)
		}
		if strings.TrimSpace(p.Title) == "" {
			noTitle = append(noTitle, p.Path)
		}
		for _, img := range findAll(p.Root, "img") {
			if strings.TrimSpace(attr(img, "alt")) == "" {
				noAlt = append(noAlt, p.Path)
				break
			}
		}
		for _, a := range findAll(p.Root, "a") {
			if strings.HasPrefix(attr(a, "href"), "/") {
				internalLinks++
			}
		}
	}

	if len(noMeta) > 0 {
		sc.deduct(Discoverability, 2.5, KindMissingMetaDescription, SeverityMedium,
			fmt.Sprintf("%d page(s) have no meta description", len(noMeta)), noMeta[0])
	}
	if len(badMeta) > 0 {
		sc.deduct(Discoverability, 1, KindShortMetaDescription, SeverityLow,
			fmt.Sprintf("meta description outside the 50-160 char window on %d page(s)", len(badMeta)), badMeta[0])
	}
	if len(noTitle) > 0 {
		sc.deduct(Discoverability, 1.5, KindMissingTitle, SeverityHigh,
			fmt.Sprintf("%d page(s) have no <title>", len(noTitle)), noTitle[0])
	}
	if len(noAlt) > 0 {
		sc.deduct(Discoverability, 1.5, KindMissingAltText, SeverityMedium,
			fmt.Sprintf("images missing alt text on %d page(s)", len(noAlt)), noAlt[0])
	}
	if len(pages) > 1 && internalLinks < len(pages) {
		sc.deduct(Discoverability, 1, KindMissingNav, SeverityLow,
			"pages are weakly interlinked; crawlers may miss them", "site")
	}

	// Copy that never names the business or its trade is invisible to
	// intent-driven search.
	if name := strings.ToLower(snap.SiteName); name != "" {
		found := false
		for _, p := range pages {
			if strings.Contains(strings.ToLower(textContent(p.Root)), name) {
				found = true
				break
			}
		}
		if !found {
			sc.deduct(Content, 1, KindGenericCopy, SeverityLow,
				fmt.Sprintf("copy never mentions the business name %q", snap.SiteName), "site")
		}
	}

	return sc.evaluation(1.0)
}
