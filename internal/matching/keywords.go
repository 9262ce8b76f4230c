package matching

import (
	"sort"
	"strings"
	"unicode"

	"github.com/factore-sourcing/backend/pkg/textutil"
)

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "can": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "it": {}, "its": {}, "they": {},
	"them": {}, "their": {}, "we": {}, "our": {}, "you": {},
	"your": {}, "he": {}, "she": {}, "his": {}, "her": {}, "not": {},
	"no": {}, "also": {}, "more": {}, "most": {}, "other": {},
	"some": {}, "such": {}, "than": {}, "then": {}, "there": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "into": {},
	"about": {}, "after": {}, "before": {}, "between": {}, "both": {},
	"each": {}, "through": {}, "over": {}, "under": {}, "very": {},
}

var technicalTerms = map[string]struct{}{
	"algorithm": {}, "analysis": {}, "data": {}, "model": {},
	"system": {}, "technology": {}, "research": {}, "method": {},
	"network": {}, "machine": {}, "learning": {}, "artificial": {},
	"intelligence": {}, "software": {}, "digital": {}, "computing": {},
	"efficiency": {}, "optimization": {}, "integration": {},
	"infrastructure": {}, "innovation": {}, "development": {},
}

var renewableTerms = map[string]struct{}{
	"solar": {}, "wind": {}, "renewable": {}, "energy": {},
	"battery": {}, "storage": {}, "grid": {}, "power": {},
	"electric": {}, "carbon": {}, "emissions": {}, "climate": {},
	"sustainable": {}, "sustainability": {}, "green": {},
	"clean": {}, "hydroelectric": {}, "geothermal": {}, "turbine": {},
	"photovoltaic": {}, "electricity": {},
}

var businessTerms = map[string]struct{}{
	"market": {}, "investment": {}, "revenue": {}, "growth": {},
	"industry": {}, "company": {}, "business": {}, "economic": {},
	"financial": {}, "capital": {}, "funding": {}, "startup": {},
	"enterprise": {}, "commercial": {}, "strategy": {}, "venture": {},
}

// defaultKeywords is the placeholder set returned when a text yields
// no scoreable words at all.
var defaultKeywords = []string{"content", "article", "information"}

// ExtractKeywords returns up to maxK keywords ranked by frequency plus
// domain boosts. Ties break toward earlier first occurrence in the text.
// A text with no scoreable words yields the placeholder set.
func ExtractKeywords(text string, maxK int) []string {
	if maxK <= 0 {
		return nil
	}
	keywords := extractKeywords(text, maxK)
	if keywords == nil {
		if maxK < len(defaultKeywords) {
			return append([]string(nil), defaultKeywords[:maxK]...)
		}
		return append([]string(nil), defaultKeywords...)
	}
	return keywords
}

func extractKeywords(text string, maxK int) []string {
	lower := strings.ToLower(text)
	words := textutil.Words(lower)

	capitalized := capitalizedWords(text)

	type candidate struct {
		word  string
		score int
		first int
	}

	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, w := range words {
		if len(w) <= 3 || !isAlphabetic(w) {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		freq[w]++
		if _, seen := firstSeen[w]; !seen {
			firstSeen[w] = i
		}
	}

	candidates := make([]candidate, 0, len(freq))
	for w, f := range freq {
		score := f
		if _, ok := technicalTerms[w]; ok {
			score += 3
		}
		if _, ok := renewableTerms[w]; ok {
			score += 3
		}
		if _, ok := businessTerms[w]; ok {
			score += 2
		}
		if len(w) > 6 {
			score++
		}
		if _, ok := capitalized[w]; ok {
			score += 2
		}
		candidates = append(candidates, candidate{word: w, score: score, first: firstSeen[w]})
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].first < candidates[j].first
	})

	if len(candidates) > maxK {
		candidates = candidates[:maxK]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}

// capitalizedWords collects the lowercase forms of words that appear
// capitalized in the original (pre-lowering) text.
func capitalizedWords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range textutil.Words(text) {
		r := []rune(w)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}

func isAlphabetic(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(w) > 0
}
