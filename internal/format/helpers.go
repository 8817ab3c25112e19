package format

import (
	"fmt"
	"time"
)

// FmtScore formats a 0-100 weighted score with one decimal.
func FmtScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FmtDelta formats a score delta with an explicit sign.
func FmtDelta(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}

// FmtDuration formats a duration as "Xm Ys" or "Ys".
func FmtDuration(d time.Duration) string {
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
