package rubric

import (
	"strings"

	"golang.org/x/net/html"

	"sitegauge/internal/site"
)

// PersuasionEvaluator scores conversion and trust signals: a call to
// action, reachable contact information, and social proof.
type PersuasionEvaluator struct{}

var _ Evaluator = PersuasionEvaluator{}

func (PersuasionEvaluator) ID() string { return "persuasion" }

func (PersuasionEvaluator) Categories() []Category { return []Category{Persuasion, Content} }

// benefitWords is a minimal lexicon of outcome-oriented language. Copy that
// mentions none of these sells nothing.
var benefitWords = []string{
	"save", "fast", "guarantee", "guaranteed", "free", "trusted", "proven",
	"results", "expert", "local", "reliable", "licensed", "certified",
}

func (e PersuasionEvaluator) Evaluate(snap *site.Snapshot) Evaluation {
	pages, err := parseSnapshot(snap)
	if err != nil {
		return abstain(e.ID(), err.Error())
	}
	sc := newScorecard(e.ID(), e.Categories())

	hasCTA, hasContact, hasProof := false, false, false
	var copyWords []string
	for _, p := range pages {
		for _, a := range findAll(p.Root, "a") {
			if hasClass(a, "cta") {
				hasCTA = true
			}
			href := attr(a, "href")
			if strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "mailto:") {
				hasContact = true
			}
		}
		if len(findAll(p.Root, "address")) > 0 {
			hasContact = true
		}
		for _, bq := range findAll(p.Root, "blockquote") {
			if hasClass(bq, "testimonial") || textContent(bq) != "" {
				hasProof = true
			}
		}
		copyWords = append(copyWords, strings.Fields(strings.ToLower(textContent(body(p.Root))))...)
	}

	if !hasCTA {
		sc.deduct(Persuasion, 3, KindMissingCTA, SeverityCritical,
			"no call to action anywhere on the site", "site")
	}
	if !hasContact {
		sc.deduct(Persuasion, 3, KindMissingContact, SeverityCritical,
			"no contact information (phone, email, or address)", "site")
	}
	if !hasProof {
		sc.deduct(Persuasion, 2, KindMissingSocialProof, SeverityMedium,
			"no testimonials or social proof", "site")
	}

	if len(copyWords) < 30 {
		sc.deduct(Content, 2, KindThinContent, SeverityMedium,
			"site copy is too thin to persuade", "site")
	} else if !containsAny(copyWords, benefitWords) {
		sc.deduct(Content, 1, KindGenericCopy, SeverityLow,
			"copy contains no benefit-oriented language", "site")
	}

	return sc.evaluation(1.0)
}

// body returns the <body> node, or the root when absent.
func body(root *html.Node) *html.Node {
	if bodies := findAll(root, "body"); len(bodies) > 0 {
		return bodies[0]
	}
	return root
}

func containsAny(words []string, lexicon []string) bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.Trim(w, ".,;:!?")] = true
	}
	for _, l := range lexicon {
		if set[l] {
			return true
		}
	}
	return false
}
