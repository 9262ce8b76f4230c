package matching

import (
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// maxThesisKeywords caps the keyword set extracted from a thesis.
const maxThesisKeywords = 8

// defaultThesisKeywords backs a thesis whose text yields nothing scoreable.
var defaultThesisKeywords = []string{"thesis", "analysis", "content"}

// structural line prefixes that carry no arguable claim.
var headerMarkers = []string{
	"abstract:", "introduction:", "conclusion:",
	"references:", "bibliography:", "chapter", "section",
}

// Thesis holds the parsed form of a user-submitted thesis document.
type Thesis struct {
	Text     string
	Points   []string
	Keywords []string
}

// ParseThesis splits thesis text into key points and extracts its
// keyword set. Lines shorter than 11 characters and structural headers
// are dropped; if fewer than 3 points survive, long points are
// re-split at sentence boundaries.
func ParseThesis(text string) Thesis {
	points := splitPoints(text)

	keywords := extractKeywords(text, maxThesisKeywords)
	if keywords == nil {
		keywords = append([]string(nil), defaultThesisKeywords...)
	}

	return Thesis{
		Text:     text,
		Points:   points,
		Keywords: keywords,
	}
}

func splitPoints(text string) []string {
	var points []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		if isHeader(line) {
			continue
		}
		points = append(points, line)
	}

	if len(points) >= 3 {
		return points
	}

	// Sparse documents often carry their argument in a single long
	// paragraph. Re-split those at sentence boundaries.
	var resplit []string
	for _, p := range points {
		if len(p) <= 200 {
			resplit = append(resplit, p)
			continue
		}
		for _, s := range splitSentences(p) {
			s = strings.TrimSpace(s)
			if len(s) > 20 {
				resplit = append(resplit, s)
			}
		}
	}
	if len(resplit) > 0 {
		return resplit
	}
	return points
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range headerMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false))
	if err != nil {
		return naiveSentences(text)
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		out = append(out, s.Text)
	}
	return out
}

func naiveSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
