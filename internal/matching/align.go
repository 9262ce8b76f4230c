package matching

import (
	"fmt"
	"strings"
)

// domainClusters group terms whose co-occurrence between thesis and
// article suggests the two cover the same topic area.
var domainClusters = map[string][]string{
	"renewable": {"solar", "wind", "renewable", "energy", "battery", "storage", "grid", "carbon", "climate", "sustainable"},
	"technology": {"technology", "software", "digital", "algorithm", "data", "machine", "learning", "artificial", "intelligence", "computing"},
	"business": {"market", "investment", "revenue", "growth", "industry", "business", "financial", "capital", "funding", "enterprise"},
}

// Alignment describes how well a piece of content lines up with a thesis.
type Alignment struct {
	Score         float64
	MatchedPoints []string
	Reasons       []string
}

// AlignWithThesis scores content against a thesis in [0,1], blending
// keyword presence, per-point similarity, whole-text similarity and
// shared domain clusters. Returns a neutral 0.5 when the thesis
// carries nothing to compare against.
func AlignWithThesis(content string, thesis Thesis) Alignment {
	if len(thesis.Points) == 0 && len(thesis.Keywords) == 0 {
		return Alignment{
			Score:   0.5,
			Reasons: []string{"No thesis content to compare; neutral alignment applied"},
		}
	}

	lower := strings.ToLower(content)
	var score float64
	var reasons []string

	// Keyword presence: share of thesis keywords appearing in the content.
	if len(thesis.Keywords) > 0 {
		hits := 0
		for _, kw := range thesis.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
			}
		}
		frac := float64(hits) / float64(len(thesis.Keywords))
		score += frac * 0.4
		reasons = append(reasons, fmt.Sprintf("Keyword match: %d/%d (%.2f)", hits, len(thesis.Keywords), frac))
	}

	// Mean similarity across all points. The 0.3 threshold only decides
	// which points count as matched, not which enter the mean.
	var matched []string
	if len(thesis.Points) > 0 {
		var sum float64
		for _, p := range thesis.Points {
			sim := Similarity(content, p)
			sum += sim
			if sim > 0.3 {
				matched = append(matched, p)
			}
		}
		mean := sum / float64(len(thesis.Points))
		score += mean * 0.3
		reasons = append(reasons, fmt.Sprintf("Point similarity: %.2f (%d matched)", mean, len(matched)))
	}

	// Whole-document similarity against the parsed thesis content.
	if joined := strings.Join(append(append([]string(nil), thesis.Points...), thesis.Keywords...), " "); joined != "" {
		overall := Similarity(content, joined)
		score += overall * 0.3
		reasons = append(reasons, fmt.Sprintf("Content similarity: %.2f", overall))
	}

	// Shared domain clusters, worth at most 0.1 combined.
	clusterBonus := 0.0
	thesisLower := strings.ToLower(thesis.Text)
	for name, terms := range domainClusters {
		if inCluster(thesisLower, terms) && inCluster(lower, terms) {
			clusterBonus += 0.05
			reasons = append(reasons, fmt.Sprintf("Shared %s domain focus", name))
		}
	}
	if clusterBonus > 0.1 {
		clusterBonus = 0.1
	}
	score += clusterBonus

	return Alignment{
		Score:         clamp01(score),
		MatchedPoints: matched,
		Reasons:       reasons,
	}
}

func inCluster(lowerText string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lowerText, t) {
			return true
		}
	}
	return false
}
