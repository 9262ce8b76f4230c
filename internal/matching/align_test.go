package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solarThesis() Thesis {
	return ParseThesis("Solar adoption will accelerate over the next decade.\n" +
		"Battery storage costs are falling faster than predicted.\n" +
		"Grid integration remains the main bottleneck for renewables.")
}

func TestAlignWithThesis_EmptyThesisNeutral(t *testing.T) {
	a := AlignWithThesis("any content at all", Thesis{})
	assert.Equal(t, 0.5, a.Score)
	assert.Empty(t, a.MatchedPoints)
	assert.NotEmpty(t, a.Reasons)
}

func TestAlignWithThesis_PointMeanIncludesWeakPoints(t *testing.T) {
	content := "Battery storage costs are falling faster than predicted."
	thesis := Thesis{
		Points: []string{
			content,
			"The restaurant review praised the pasta selection downtown.",
			"Gardening advice covering tomato planting and watering schedules.",
		},
	}

	var sum float64
	for _, p := range thesis.Points {
		sum += Similarity(content, p)
	}
	mean := sum / float64(len(thesis.Points))
	whole := Similarity(content, strings.Join(thesis.Points, " "))

	a := AlignWithThesis(content, thesis)
	assert.InDelta(t, mean*0.3+whole*0.3, a.Score, 1e-9)
	assert.Equal(t, []string{content}, a.MatchedPoints)
}

func TestAlignWithThesis_WholeContentUsesPointsAndKeywords(t *testing.T) {
	content := "Battery storage costs are falling faster than predicted."
	thesis := Thesis{
		Text:     "References: ignore this header noise entirely",
		Points:   []string{content},
		Keywords: []string{"battery", "storage"},
	}

	joined := strings.Join(append(append([]string(nil), thesis.Points...), thesis.Keywords...), " ")
	whole := Similarity(content, joined)

	a := AlignWithThesis(content, thesis)
	assert.InDelta(t, 0.4+0.3+whole*0.3, a.Score, 1e-9)
}

func TestAlignWithThesis_ReasonsCarrySubScores(t *testing.T) {
	thesis := solarThesis()
	a := AlignWithThesis("Solar adoption accelerates with battery storage.", thesis)

	joined := strings.Join(a.Reasons, " | ")
	assert.Contains(t, joined, "Keyword match:")
	assert.Contains(t, joined, "Point similarity:")
	assert.Contains(t, joined, "Content similarity:")
}

func TestAlignWithThesis_RelevantOutscoresIrrelevant(t *testing.T) {
	thesis := solarThesis()

	relevant := "Battery storage costs are dropping while solar adoption accelerates, " +
		"easing grid integration for renewables."
	irrelevant := "The restaurant review praised the pasta and the dessert selection."

	ar := AlignWithThesis(relevant, thesis)
	ai := AlignWithThesis(irrelevant, thesis)
	assert.Greater(t, ar.Score, ai.Score)
	assert.NotEmpty(t, ar.Reasons)
}

func TestAlignWithThesis_Bounds(t *testing.T) {
	thesis := solarThesis()
	// Verbatim thesis content should push every component to its cap
	// without escaping [0,1].
	a := AlignWithThesis(thesis.Text, thesis)
	assert.GreaterOrEqual(t, a.Score, 0.0)
	assert.LessOrEqual(t, a.Score, 1.0)
	assert.NotEmpty(t, a.MatchedPoints)
}

func TestAlignWithThesis_MatchedPointsSubset(t *testing.T) {
	thesis := solarThesis()
	a := AlignWithThesis("Battery storage costs are falling faster than predicted.", thesis)

	for _, p := range a.MatchedPoints {
		assert.Contains(t, thesis.Points, p)
	}
}
