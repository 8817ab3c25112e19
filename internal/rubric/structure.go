package rubric

import (
	"fmt"
	"strings"

	"sitegauge/internal/site"
)

// StructureEvaluator scores document structure and usability: heading
// hierarchy, navigation, page titles, and content depth.
type StructureEvaluator struct{}

var _ Evaluator = StructureEvaluator{}

func (StructureEvaluator) ID() string { return "structure" }

func (StructureEvaluator) Categories() []Category { return []Category{Structure, Content} }

func (e StructureEvaluator) Evaluate(snap *site.Snapshot) Evaluation {
	pages, err := parseSnapshot(snap)
	if err != nil {
		return abstain(e.ID(), err.Error())
	}
	sc := newScorecard(e.ID(), e.Categories())

	var untitled, noH1, multiH1, skips, thin []string
	navFound := false
	for _, p := range pages {
		if strings.TrimSpace(p.Title) == "" {
			untitled = append(untitled, p.Path)
		}
		hs := headings(p.Root)
		h1s := 0
		prev := 0
		skipped := false
		for _, h := range hs {
			if h.Level == 1 {
				h1s++
			}
			if prev > 0 && h.Level > prev+1 {
				skipped = true
			}
			prev = h.Level
		}
		switch {
		case h1s == 0:
			noH1 = append(noH1, p.Path)
		case h1s > 1:
			multiH1 = append(multiH1, p.Path)
		}
		if skipped {
			skips = append(skips, p.Path)
		}
		if len(strings.Fields(textContent(p.Root))) < 50 {
			thin = append(thin, p.Path)
		}
		if len(findAll(p.Root, "nav")) > 0 {
			navFound = true
		}
	}

	if len(untitled) > 0 {
		sc.deduct(Structure, 1.5, KindMissingTitle, SeverityHigh,
			fmt.Sprintf("%d page(s) have no <title>", len(untitled)), untitled[0])
	}
	if len(noH1) > 0 {
		sc.deduct(Structure, 2, KindMissingH1, SeverityHigh,
			fmt.Sprintf("%d page(s) have no top-level heading", len(noH1)), noH1[0])
	}
	if len(multiH1) > 0 {
		sc.deduct(Structure, 1, KindMultipleH1, SeverityMedium,
			fmt.Sprintf("%d page(s) have more than one h1", len(multiH1)), multiH1[0])
	}
	if len(skips) > 0 {
		sc.deduct(Structure, 1, KindHeadingSkip, SeverityMedium,
			fmt.Sprintf("heading levels skip on %d page(s)", len(skips)), skips[0])
	}
	if len(pages) > 1 && !navFound {
		sc.deduct(Structure, 2.5, KindMissingNav, SeverityHigh,
			"multi-page site has no navigation linking its pages", "site")
	}
	if len(thin) > 0 {
		sc.deduct(Content, 2, KindThinContent, SeverityMedium,
			fmt.Sprintf("%d page(s) carry fewer than 50 words", len(thin)), thin[0])
	}

	return sc.evaluation(1.0)
}
