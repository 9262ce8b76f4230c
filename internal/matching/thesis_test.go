package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThesis_SplitsLines(t *testing.T) {
	text := "Solar adoption will accelerate over the next decade.\n" +
		"Battery storage costs are falling faster than predicted.\n" +
		"Grid integration remains the main bottleneck for renewables."

	thesis := ParseThesis(text)
	require.Len(t, thesis.Points, 3)
	assert.Equal(t, "Solar adoption will accelerate over the next decade.", thesis.Points[0])
}

func TestParseThesis_SkipsShortLinesAndHeaders(t *testing.T) {
	text := "Abstract: overview of the work\n" +
		"ok\n" +
		"Chapter 1 methodology notes\n" +
		"Solar adoption will accelerate over the next decade.\n" +
		"Battery storage costs are falling faster than predicted.\n" +
		"Grid integration remains the main bottleneck for renewables."

	thesis := ParseThesis(text)
	require.Len(t, thesis.Points, 3)
	for _, p := range thesis.Points {
		assert.NotContains(t, strings.ToLower(p), "abstract")
		assert.NotContains(t, strings.ToLower(p), "chapter")
	}
}

func TestParseThesis_ResplitsLongParagraph(t *testing.T) {
	long := "Solar adoption will accelerate over the next decade because module prices " +
		"keep dropping year over year. Battery storage costs are also falling faster than " +
		"most analysts predicted even two years ago. Grid integration remains the main " +
		"bottleneck and deserves the bulk of new investment attention."

	thesis := ParseThesis(long)
	assert.GreaterOrEqual(t, len(thesis.Points), 3)
	for _, p := range thesis.Points {
		assert.Greater(t, len(p), 20)
	}
}

func TestParseThesis_KeywordCap(t *testing.T) {
	text := "Solar battery storage grid renewable energy efficiency integration " +
		"investment market growth technology infrastructure innovation development analysis"

	thesis := ParseThesis(text)
	assert.LessOrEqual(t, len(thesis.Keywords), 8)
	assert.NotEmpty(t, thesis.Keywords)
}

func TestParseThesis_EmptyText(t *testing.T) {
	thesis := ParseThesis("")
	assert.Empty(t, thesis.Points)
	assert.Equal(t, []string{"thesis", "analysis", "content"}, thesis.Keywords)
}
