package matching

import "strings"

const summaryMaxLen = 300

// Summarize produces a short extractive summary blending the leading
// and trailing portions of the text, trimmed toward sentence
// boundaries, so both the lede and the conclusion survive.
func Summarize(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= summaryMaxLen {
		return text
	}

	first := text[:summaryMaxLen/2]
	last := text[len(text)-summaryMaxLen/2:]

	if idx := strings.LastIndex(first, "."); idx > summaryMaxLen/3 {
		first = first[:idx+1]
	}
	if idx := strings.Index(last, "."); idx > summaryMaxLen/3 {
		last = last[idx+1:]
	}

	summary := strings.TrimSpace(first) + "... " + strings.TrimSpace(last)
	if len(summary) > summaryMaxLen {
		summary = summary[:summaryMaxLen-3] + "..."
	}
	return summary
}
