package matching

import (
	"strings"

	"github.com/factore-sourcing/backend/pkg/textutil"
)

// sequenceRatioMaxLen bounds the inputs of the quadratic sequence metric.
const sequenceRatioMaxLen = 2000

// Similarity scores two texts in [0,1] by blending four lexical metrics
// over normalized (HTML-stripped, lowercased, whitespace-collapsed) text:
// character sequence ratio, word Jaccard, trigram Jaccard and
// keyword-density overlap. Symmetric in its arguments.
func Similarity(a, b string) float64 {
	na := textutil.Normalize(a)
	nb := textutil.Normalize(b)

	if na == "" || nb == "" {
		return wordOverlapJaccard(a, b)
	}

	seq := sequenceRatio(na, nb)
	jac := wordJaccard(na, nb)
	tri := trigramJaccard(na, nb)
	kw := keywordDensityOverlap(na, nb)

	score := seq*0.3 + jac*0.3 + tri*0.2 + kw*0.2
	return clamp01(score)
}

// sequenceRatio is the classic 2*matches/(len_a+len_b) ratio over the
// longest common subsequence of the two strings.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) > sequenceRatioMaxLen {
		ra = ra[:sequenceRatioMaxLen]
	}
	if len(rb) > sequenceRatioMaxLen {
		rb = rb[:sequenceRatioMaxLen]
	}
	if len(ra)+len(rb) == 0 {
		return 0.0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	matches := prev[len(rb)]
	return 2.0 * float64(matches) / float64(len(ra)+len(rb))
}

func wordJaccard(a, b string) float64 {
	return jaccard(textutil.WordSet(a), textutil.WordSet(b))
}

func trigramJaccard(a, b string) float64 {
	return jaccard(wordShingles(a, 3), wordShingles(b, 3))
}

func wordShingles(text string, n int) map[string]struct{} {
	words := strings.Fields(text)
	shingles := make(map[string]struct{})
	for i := 0; i+n <= len(words); i++ {
		shingles[strings.Join(words[i:i+n], " ")] = struct{}{}
	}
	return shingles
}

// keywordDensityOverlap compares the sets of words longer than 3
// characters, the rough notion of "keywords" both texts carry.
func keywordDensityOverlap(a, b string) float64 {
	return jaccard(keywordSet(a), keywordSet(b))
}

func keywordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range textutil.Words(text) {
		if len(w) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// wordOverlapJaccard is the last-resort similarity used when
// normalization produced nothing usable.
func wordOverlapJaccard(a, b string) float64 {
	sa := textutil.WordSet(strings.ToLower(a))
	sb := textutil.WordSet(strings.ToLower(b))
	return jaccard(sa, sb)
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
