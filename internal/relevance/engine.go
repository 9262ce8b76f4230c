package relevance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/embedding"
	"github.com/factore-sourcing/backend/internal/index"
	"github.com/factore-sourcing/backend/internal/matching"
	"github.com/factore-sourcing/backend/internal/storage/models"
	"github.com/factore-sourcing/backend/pkg/logger"
)

const (
	weightVector    = 0.4
	weightKeywords  = 0.3
	weightTextSim   = 0.2
	weightLength    = 0.1
	alignmentWeight = 0.3

	// noThesisScore ranks every article equally until a thesis arrives.
	noThesisScore = 1.0

	maxMatchedPoints = 3
	maxReasons       = 3
)

// Engine ranks articles against the active thesis. A single engine is
// shared by all requests; thesis replacement and ranking may run
// concurrently.
type Engine struct {
	index    *index.ThesisIndex
	provider embedding.Provider

	mu     sync.RWMutex
	thesis matching.Thesis
	loaded bool
}

func NewEngine(idx *index.ThesisIndex, provider embedding.Provider) *Engine {
	return &Engine{index: idx, provider: provider}
}

// SubmitThesis parses, embeds and installs a new thesis, replacing any
// previous one. Returns the parsed point and keyword counts.
func (e *Engine) SubmitThesis(ctx context.Context, text string) (points int, keywords int, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0, fmt.Errorf("thesis text is empty")
	}

	thesis := matching.ParseThesis(text)

	vectors := make([][]float32, len(thesis.Points))
	for i, p := range thesis.Points {
		vectors[i] = e.provider.Embed(ctx, p)
	}

	e.index.Replace(thesis.Points, thesis.Keywords, vectors)

	e.mu.Lock()
	e.thesis = thesis
	e.loaded = true
	e.mu.Unlock()

	logger.Info("thesis installed",
		zap.Int("points", len(thesis.Points)),
		zap.Int("keywords", len(thesis.Keywords)),
	)
	return len(thesis.Points), len(thesis.Keywords), nil
}

// HasThesis reports whether a thesis has been submitted.
func (e *Engine) HasThesis() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Thesis returns a copy of the active thesis.
func (e *Engine) Thesis() (matching.Thesis, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thesis, e.loaded
}

// Rank scores every article against the active thesis and returns the
// results ordered by descending relevance. Without a thesis, every
// article gets the neutral default score. A failure scoring one
// article zeroes that article's sub-scores without affecting the rest.
func (e *Engine) Rank(ctx context.Context, articles []models.Article) []models.MatchResult {
	thesis, _ := e.Thesis()

	// A thesis that parsed to zero points carries nothing to rank
	// against, same as no thesis at all.
	hasPoints := len(thesis.Points) > 0

	results := make([]models.MatchResult, 0, len(articles))
	for _, a := range articles {
		if !hasPoints {
			results = append(results, noThesisResult(a))
			continue
		}
		results = append(results, e.scoreArticle(ctx, a, thesis))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return results
}

func noThesisResult(a models.Article) models.MatchResult {
	return models.MatchResult{
		URL:                 a.URL,
		Title:               a.Title,
		Summary:             a.Summary,
		FullContent:         a.FullContent,
		Keywords:            a.Keywords,
		Companies:           a.Companies,
		Starred:             a.Starred,
		RelevanceScore:      noThesisScore,
		MatchedThesisPoints: []string{"No thesis uploaded yet"},
		MatchReason:         "No thesis available for comparison",
	}
}

func (e *Engine) scoreArticle(ctx context.Context, a models.Article, thesis matching.Thesis) (result models.MatchResult) {
	result = models.MatchResult{
		URL:         a.URL,
		Title:       a.Title,
		Summary:     a.Summary,
		FullContent: a.FullContent,
		Keywords:    a.Keywords,
		Companies:   a.Companies,
		Starred:     a.Starred,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("scoring panicked, article zeroed",
				zap.String("url", a.URL),
				zap.Any("panic", r),
			)
			result.RelevanceScore = 0
			result.MatchedThesisPoints = nil
			result.MatchReason = "scoring failed"
			result.DetailedScores = nil
		}
	}()

	content := a.Summary
	if a.FullContent != "" {
		content = a.FullContent
	}

	detailed := make(map[string]float64, 5)
	var reasons []string

	// Vector distance to the nearest thesis points, mapped to (0,1].
	// The hit points double as the matched-point fallback when the
	// alignment analyzer matches nothing.
	vectorScore := 0.0
	var hitPoints []string
	vec := a.Embedding
	if len(vec) != e.index.Dimension() {
		vec = e.provider.Embed(ctx, content)
	}
	if hits := e.index.Search(vec, maxMatchedPoints); len(hits) > 0 {
		points, _ := e.index.Snapshot()
		for _, h := range hits {
			if h.Index >= 0 && h.Index < len(points) {
				hitPoints = append(hitPoints, points[h.Index])
			}
		}
		vectorScore = 1.0 / (1.0 + hits[0].Distance)
		if vectorScore > 0.3 {
			reasons = append(reasons, "semantically close to thesis")
		}
	}
	detailed["vector_similarity"] = vectorScore

	// Share of thesis keywords found among the article's keywords.
	keywordScore := 0.0
	if len(thesis.Keywords) > 0 {
		overlap := keywordOverlap(a.Keywords, thesis.Keywords)
		keywordScore = float64(overlap) / float64(len(thesis.Keywords))
		if overlap > 0 {
			reasons = append(reasons, fmt.Sprintf("shares %d keywords with thesis", overlap))
		}
	}
	detailed["keyword_overlap"] = keywordScore

	// Best lexical similarity of the summary against the leading points.
	textScore := 0.0
	for i, p := range thesis.Points {
		if i >= 3 {
			break
		}
		if sim := matching.Similarity(a.Summary, p); sim > textScore {
			textScore = sim
		}
	}
	if textScore > 0.3 {
		reasons = append(reasons, "text closely matches a thesis point")
	}
	detailed["text_similarity"] = textScore

	// Longer summaries carry more signal, up to a 500-char ceiling.
	lengthScore := float64(len(a.Summary)) / 500.0
	if lengthScore > 1.0 {
		lengthScore = 1.0
	}
	detailed["content_quality"] = lengthScore

	alignment := matching.AlignWithThesis(content, thesis)
	detailed["thesis_alignment"] = alignment.Score

	score := vectorScore*weightVector +
		keywordScore*weightKeywords +
		textScore*weightTextSim +
		lengthScore*weightLength +
		alignment.Score*alignmentWeight

	reasons = append(reasons, alignment.Reasons...)
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if len(reasons) == 0 {
		reasons = []string{"weak overall relevance to thesis"}
	}

	// Alignment matches win; otherwise fall back to the vector hits.
	matched := alignment.MatchedPoints
	if len(matched) == 0 {
		matched = hitPoints
	}
	if len(matched) > maxMatchedPoints {
		matched = matched[:maxMatchedPoints]
	}

	result.RelevanceScore = score
	result.MatchedThesisPoints = matched
	result.MatchReason = strings.Join(reasons, " | ")
	result.DetailedScores = detailed
	return result
}

func keywordOverlap(articleKeywords, thesisKeywords []string) int {
	set := make(map[string]struct{}, len(articleKeywords))
	for _, k := range articleKeywords {
		set[strings.ToLower(k)] = struct{}{}
	}
	count := 0
	for _, k := range thesisKeywords {
		if _, ok := set[strings.ToLower(k)]; ok {
			count++
		}
	}
	return count
}
