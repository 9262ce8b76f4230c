package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords_DomainTerms(t *testing.T) {
	text := "Solar panel efficiency is improving. Battery storage capacity is critical " +
		"for grid integration. Solar energy adoption keeps growing."

	keywords := ExtractKeywords(text, 8)
	require.NotEmpty(t, keywords)
	assert.LessOrEqual(t, len(keywords), 8)

	for _, want := range []string{"solar", "battery", "storage", "grid", "efficiency", "energy"} {
		assert.Contains(t, keywords, want)
	}
}

func TestExtractKeywords_SkipsStopwordsAndShortWords(t *testing.T) {
	text := "the cat and the dog ran to the big renewable energy conference"

	keywords := ExtractKeywords(text, 10)
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "and")
	assert.NotContains(t, keywords, "cat")
	assert.NotContains(t, keywords, "ran")
	assert.Contains(t, keywords, "renewable")
	assert.Contains(t, keywords, "energy")
}

func TestExtractKeywords_FrequencyRanksFirst(t *testing.T) {
	text := "turbine turbine turbine generator generator windmill"

	keywords := ExtractKeywords(text, 3)
	require.Len(t, keywords, 3)
	assert.Equal(t, "turbine", keywords[0])
	assert.Equal(t, "generator", keywords[1])
}

func TestExtractKeywords_EmptyTextPlaceholder(t *testing.T) {
	keywords := ExtractKeywords("", 8)
	assert.Equal(t, []string{"content", "article", "information"}, keywords)
}

func TestExtractKeywords_PlaceholderRespectsCap(t *testing.T) {
	keywords := ExtractKeywords("!!! ... 123", 2)
	assert.Equal(t, []string{"content", "article"}, keywords)
}

func TestExtractKeywords_ZeroCap(t *testing.T) {
	assert.Nil(t, ExtractKeywords("solar energy", 0))
}

func TestExtractKeywords_CapitalizedBoost(t *testing.T) {
	// Both words appear once; the capitalized one should outrank.
	text := "Tesla builds products while rivals watch markets. plain words linger here"

	keywords := ExtractKeywords(text, 20)
	require.Contains(t, keywords, "tesla")
	idxTesla, idxLinger := -1, -1
	for i, k := range keywords {
		switch k {
		case "tesla":
			idxTesla = i
		case "linger":
			idxLinger = i
		}
	}
	require.GreaterOrEqual(t, idxTesla, 0)
	require.GreaterOrEqual(t, idxLinger, 0)
	assert.Less(t, idxTesla, idxLinger)
}
