package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_ShortTextUnchanged(t *testing.T) {
	text := "Solar adoption keeps growing."
	assert.Equal(t, text, Summarize(text))
}

func TestSummarize_BlendsLeadAndTail(t *testing.T) {
	text := strings.Repeat("Battery costs keep falling every year. ", 12)

	summary := Summarize(text)
	assert.LessOrEqual(t, len(summary), 300)
	assert.True(t, strings.HasPrefix(summary, "Battery costs"))
	assert.Contains(t, summary, "... ")
	assert.True(t, strings.HasSuffix(summary, "."))
}

func TestSummarize_FirstPortionEndsAtSentenceBoundary(t *testing.T) {
	text := strings.Repeat("Battery costs keep falling every year. ", 12)

	summary := Summarize(text)
	lead := summary[:strings.Index(summary, "... ")]
	assert.True(t, strings.HasSuffix(lead, "."))
}

func TestSummarize_NoSentenceBoundaryFallsBackRaw(t *testing.T) {
	text := strings.Repeat("solarwords ", 60)

	summary := Summarize(text)
	assert.LessOrEqual(t, len(summary), 300)
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestSummarize_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "compact", Summarize("  compact  "))
}
