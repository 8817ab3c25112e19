// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, markdown reports, and logs. Keep raw
// codes for JSON fields, map keys, and equality comparisons.
package display

// --- Verdict tiers ---

var verdicts = map[string]string{
	"Poor":       "Poor",
	"Good":       "Good",
	"Excellent":  "Excellent",
	"WorldClass": "World-Class",
}

// Verdict returns the human-readable verdict name. Unknown codes are
// returned as-is.
func Verdict(code string) string {
	if name, ok := verdicts[code]; ok {
		return name
	}
	return code
}

// --- Severities ---

var severityMarks = map[string]string{
	"Critical": "‼",
	"High":     "!",
	"Medium":   "•",
	"Low":      "·",
}

// SeverityMark returns a one-character badge for a severity.
func SeverityMark(code string) string {
	if mark, ok := severityMarks[code]; ok {
		return mark
	}
	return "?"
}

// --- Issue kinds ---

var kinds = map[string]string{
	"missing-title":            "Missing page title",
	"missing-meta-description": "Missing meta description",
	"short-meta-description":   "Meta description length off",
	"missing-h1":               "Missing top-level heading",
	"multiple-h1":              "Multiple top-level headings",
	"heading-skip":             "Heading level skip",
	"missing-nav":              "Missing navigation",
	"missing-cta":              "Missing call to action",
	"missing-contact":          "Missing contact details",
	"missing-social-proof":     "Missing social proof",
	"missing-alt-text":         "Missing image alt text",
	"thin-content":             "Thin content",
	"generic-copy":             "Generic copy",
	"duplicate-copy":           "Duplicated copy",
	"placeholder-asset":        "Placeholder asset",
	"palette-overload":         "Too many colors",
	"missing-palette":          "No color palette",
	"font-overload":            "Too many fonts",
	"no-imagery":               "No imagery",
	"unreadable-snapshot":      "Unreadable snapshot",
}

// Kind returns the human-readable name for an issue kind. Unknown kinds
// are returned as-is.
func Kind(code string) string {
	if name, ok := kinds[code]; ok {
		return name
	}
	return code
}

// KindWithCode returns "Missing contact details (missing-contact)" format.
func KindWithCode(code string) string {
	if name, ok := kinds[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Agreement levels ---

var agreements = map[string]string{
	"High":   "evaluators agree",
	"Medium": "evaluators mostly agree",
	"Low":    "evaluators disagree",
}

// Agreement returns a phrase describing an agreement level.
func Agreement(code string) string {
	if phrase, ok := agreements[code]; ok {
		return phrase
	}
	return code
}

// --- Termination reasons ---

var terminations = map[string]string{
	"TargetReached":        "target quality reached",
	"MaxIterationsReached": "iteration cap reached",
	"Stagnation":           "score stopped improving",
	"FixerExhausted":       "no actionable fix remains",
	"BudgetExceeded":       "wall-clock budget exceeded",
}

// Termination returns a phrase describing why a session halted.
func Termination(code string) string {
	if phrase, ok := terminations[code]; ok {
		return phrase
	}
	return code
}

// TerminationWithCode returns "target quality reached (TargetReached)".
func TerminationWithCode(code string) string {
	if phrase, ok := terminations[code]; ok {
		return phrase + " (" + code + ")"
	}
	return code
}

// Converged reports whether a termination reason means the session ended
// because quality is good enough, as opposed to giving up.
func Converged(code string) bool {
	return code == "TargetReached"
}
