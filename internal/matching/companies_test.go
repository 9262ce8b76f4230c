package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCompanies_SuffixMatches(t *testing.T) {
	text := "Tesla Inc announced a partnership with First Solar Corporation while " +
		"Brookfield Renewable Partners expanded its portfolio."

	companies := ExtractCompanies(text)
	require.NotEmpty(t, companies)
	assert.Contains(t, companies, "Tesla Inc")
	assert.Contains(t, companies, "First Solar Corporation")
}

func TestExtractCompanies_Deduplicates(t *testing.T) {
	text := "Acme Technologies shipped units. Acme Technologies also hired. ACME TECHNOLOGIES again."

	companies := ExtractCompanies(text)
	count := 0
	for _, c := range companies {
		if c == "Acme Technologies" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractCompanies_CapitalizedPairFallback(t *testing.T) {
	text := "Researchers at Helion Fusion published results alongside teams from Verdant Labs yesterday."

	companies := ExtractCompanies(text)
	assert.Contains(t, companies, "Helion Fusion")
	assert.LessOrEqual(t, len(companies), 5)
}

func TestExtractCompanies_FiltersGenericPairs(t *testing.T) {
	text := "The United States announced new policies for North America next year."

	companies := ExtractCompanies(text)
	assert.NotContains(t, companies, "United States")
}

func TestExtractCompanies_EmptyText(t *testing.T) {
	assert.Empty(t, ExtractCompanies(""))
}
