package models

import "time"

// Article is one unit of scraped or uploaded content. The embedding is
// computed once from the summary at ingestion time and never recomputed.
type Article struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	FullContent string    `json:"full_content,omitempty"`
	Keywords    []string  `json:"keywords"`
	Companies   []string  `json:"companies"`
	Embedding   []float32 `json:"-"`
	PublishDate string    `json:"publish_date,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Starred     bool      `json:"is_starred"`
	Warning     string    `json:"warning,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ThesisRecord tracks a submitted thesis for history display. The live
// matching state lives in the thesis index, not here.
type ThesisRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"-"`
	PointCount   int       `json:"point_count"`
	KeywordCount int       `json:"keyword_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// MatchResult is recomputed on every ranking call and never persisted.
type MatchResult struct {
	URL                 string             `json:"url"`
	Title               string             `json:"title"`
	Summary             string             `json:"summary"`
	FullContent         string             `json:"full_content,omitempty"`
	Keywords            []string           `json:"keywords"`
	Companies           []string           `json:"companies"`
	Starred             bool               `json:"is_starred"`
	RelevanceScore      float64            `json:"relevance_score"`
	MatchedThesisPoints []string           `json:"matched_thesis_points"`
	MatchReason         string             `json:"match_reason"`
	DetailedScores      map[string]float64 `json:"detailed_scores"`
}
