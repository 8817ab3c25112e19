// Package triage turns the raw issue lists from all evaluators into one
// deduplicated, deterministically ordered repair queue.
package triage

import (
	"sort"
	"strings"

	"sitegauge/internal/rubric"
)

// DefaultSimilarity is the token-Jaccard threshold above which two issue
// descriptions in the same category describe the same defect.
const DefaultSimilarity = 0.5

// Dedupe merges issues that describe the same defect: same category and
// description similarity above the threshold. The merged issue keeps the
// first-seen identity and the higher severity. Input order is preserved.
func Dedupe(issues []rubric.Issue, similarity float64) []rubric.Issue {
	if similarity <= 0 {
		similarity = DefaultSimilarity
	}
	var out []rubric.Issue
	var tokens [][]string
	for _, issue := range issues {
		issueTokens := Tokenize(issue.Description)
		merged := false
		for i := range out {
			if out[i].Category != issue.Category {
				continue
			}
			// Identical kind from two evaluators is the same defect
			// regardless of wording.
			if out[i].Kind == issue.Kind || JaccardSimilarity(tokens[i], issueTokens) >= similarity {
				if issue.Severity.Rank() > out[i].Severity.Rank() {
					out[i].Severity = issue.Severity
				}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, issue)
			tokens = append(tokens, issueTokens)
		}
	}
	return out
}

// Prioritize orders a deduplicated issue list into the repair queue:
// severity first (Critical > High > Medium > Low), then the owning
// category's deficit from its minimum threshold (larger deficit first),
// then insertion order for determinism.
func Prioritize(issues []rubric.Issue, deficits map[rubric.Category]float64) []rubric.Issue {
	queue := append([]rubric.Issue(nil), issues...)
	index := make(map[string]int, len(queue))
	for i, issue := range queue {
		index[issue.ID] = i
	}
	sort.SliceStable(queue, func(a, b int) bool {
		ia, ib := queue[a], queue[b]
		if ra, rb := ia.Severity.Rank(), ib.Severity.Rank(); ra != rb {
			return ra > rb
		}
		if da, db := deficits[ia.Category], deficits[ib.Category]; da != db {
			return da > db
		}
		return index[ia.ID] < index[ib.ID]
	})
	return queue
}

// JaccardSimilarity computes the Jaccard coefficient between two token sets.
func JaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[strings.ToLower(s)] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[strings.ToLower(s)] = true
	}

	intersection := 0
	for s := range setA {
		if setB[s] {
			intersection++
		}
	}

	union := len(setA)
	for s := range setB {
		if !setA[s] {
			union++
		}
	}

	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// Tokenize splits text into lowercase tokens, dropping punctuation and
// words too short to carry meaning.
func Tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	result := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?()[]{}\"'`")
		if len(w) > 2 {
			result = append(result, w)
		}
	}
	return result
}
