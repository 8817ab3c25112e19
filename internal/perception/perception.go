// Package perception produces a holistic 0-100 "gut impression" score from
// four weighted sub-dimensions. It deliberately overlaps the rubric
// evaluators without sharing any code path or state with them: a site can
// pass every per-category rubric and still read as generic, and this score
// is where that shows up.
package perception

import (
	"strings"

	"golang.org/x/net/html"

	"sitegauge/internal/site"
)

// Score is the four-way perception breakdown. Each sub-score is 0-25; the
// total is the 0-100 perception number used by the verdict classifier.
type Score struct {
	FirstImpression     float64 `json:"first_impression"`
	EmotionalResonance  float64 `json:"emotional_resonance"`
	Cohesion            float64 `json:"cohesion"`
	IdentityRecognition float64 `json:"identity_recognition"`
}

// Total sums the sub-dimensions into the 0-100 perception score.
func (s Score) Total() float64 {
	return s.FirstImpression + s.EmotionalResonance + s.Cohesion + s.IdentityRecognition
}

// emotiveWords is the resonance lexicon. Copy that speaks only in features
// scores near zero here.
var emotiveWords = []string{
	"love", "proud", "care", "family", "dream", "passion", "trust",
	"peace", "joy", "home", "community", "promise", "heart", "welcome",
}

var stockPhrases = []string{
	"lorem ipsum", "welcome to our website", "we are a company",
	"your trusted partner", "insert text here",
}

// Perceive scores a snapshot. An unreadable snapshot scores zero across the
// board; the caller treats that the same as an abstaining evaluator.
func Perceive(snap *site.Snapshot) Score {
	if snap == nil || len(snap.Pages) == 0 {
		return Score{}
	}
	docs := make([]*html.Node, 0, len(snap.Pages))
	for _, p := range snap.Pages {
		doc, err := html.Parse(strings.NewReader(p.HTML))
		if err != nil {
			return Score{}
		}
		docs = append(docs, doc)
	}

	return Score{
		FirstImpression:     firstImpression(docs[0]),
		EmotionalResonance:  emotionalResonance(docs),
		Cohesion:            cohesion(snap, docs),
		IdentityRecognition: identityRecognition(snap, docs),
	}
}

// firstImpression judges the landing page alone: what a visitor sees in the
// first second.
func firstImpression(home *html.Node) float64 {
	score := 25.0
	if len(elements(home, "header")) == 0 {
		score -= 10
	}
	if len(elements(home, "h1")) == 0 {
		score -= 5
	}
	if len(elements(home, "img")) == 0 {
		score -= 5
	}
	if !anyElement(home, "a", func(n *html.Node) bool { return className(n) == "cta" }) {
		score -= 5
	}
	return clamp25(score)
}

// emotionalResonance measures emotive language density across all copy.
func emotionalResonance(docs []*html.Node) float64 {
	hits := 0
	for _, doc := range docs {
		text := strings.ToLower(allText(doc))
		for _, w := range emotiveWords {
			hits += strings.Count(text, w)
		}
	}
	return clamp25(float64(hits) * 4)
}

// cohesion measures whether the pages read as one site: shared navigation,
// a bounded palette, one typeface, and titles everywhere.
func cohesion(snap *site.Snapshot, docs []*html.Node) float64 {
	score := 0.0
	withNav := 0
	for _, doc := range docs {
		if len(elements(doc, "nav")) > 0 {
			withNav++
		}
	}
	if len(docs) == 1 || withNav == len(docs) {
		score += 10
	}
	if colors := strings.Count(snap.CSS, "--color-"); colors >= 1 && colors <= 5 {
		score += 5
	}
	if strings.Count(snap.CSS, "font-family:") == 1 {
		score += 5
	}
	titled := 0
	for _, p := range snap.Pages {
		if strings.TrimSpace(p.Title) != "" {
			titled++
		}
	}
	if titled == len(snap.Pages) {
		score += 5
	}
	return clamp25(score)
}

// identityRecognition measures whether the site could only belong to this
// business: its name in the copy, page-to-page variety, no stock phrasing.
func identityRecognition(snap *site.Snapshot, docs []*html.Node) float64 {
	score := 0.0
	name := strings.ToLower(snap.SiteName)
	mentions := 0
	var texts []string
	for _, doc := range docs {
		text := strings.ToLower(allText(doc))
		texts = append(texts, text)
		if name != "" {
			mentions += strings.Count(text, name)
		}
	}
	if mentions >= len(docs) {
		score += 10
	} else if mentions > 0 {
		score += 5
	}

	stock := false
	for _, text := range texts {
		for _, phrase := range stockPhrases {
			if strings.Contains(text, phrase) {
				stock = true
			}
		}
	}
	if !stock {
		score += 5
	}

	// Page variety: clone-heavy sites have near-identical word sets.
	if len(texts) == 1 || maxPairSimilarity(texts) < 0.8 {
		score += 10
	}
	return clamp25(score)
}

func maxPairSimilarity(texts []string) float64 {
	best := 0.0
	sets := make([]map[string]bool, len(texts))
	for i, t := range texts {
		sets[i] = make(map[string]bool)
		for _, w := range strings.Fields(t) {
			sets[i][w] = true
		}
	}
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			inter := 0
			for w := range sets[i] {
				if sets[j][w] {
					inter++
				}
			}
			union := len(sets[i]) + len(sets[j]) - inter
			if union > 0 {
				if sim := float64(inter) / float64(union); sim > best {
					best = sim
				}
			}
		}
	}
	return best
}

// --- tiny DOM helpers ---

func elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func anyElement(root *html.Node, tag string, pred func(*html.Node) bool) bool {
	for _, n := range elements(root, tag) {
		if pred(n) {
			return true
		}
	}
	return false
}

func className(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return a.Val
		}
	}
	return ""
}

func allText(root *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}

func clamp25(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 25 {
		return 25
	}
	return v
}
