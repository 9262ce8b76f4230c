package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factore-sourcing/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(":memory:")
	require.NoError(t, err)
	require.NoError(t, c.InitSchema())
	t.Cleanup(func() { c.Close() })
	return c
}

func testArticle(id, url string) *models.Article {
	return &models.Article{
		ID:          id,
		URL:         url,
		Title:       "Solar growth",
		Summary:     "Solar adoption accelerates.",
		FullContent: "Solar adoption accelerates across markets.",
		Keywords:    []string{"solar", "adoption"},
		Companies:   []string{"First Solar Corporation"},
		Embedding:   []float32{0.1, 0.2},
		Authors:     []string{"A. Writer"},
		CreatedAt:   time.Now(),
	}
}

func TestUpsertAndGetArticle(t *testing.T) {
	c := newTestClient(t)

	a := testArticle("id1", "https://example.com/solar")
	require.NoError(t, c.UpsertArticle(a))

	got, err := c.GetArticle("id1")
	require.NoError(t, err)
	assert.Equal(t, a.URL, got.URL)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.Keywords, got.Keywords)
	assert.Equal(t, a.Companies, got.Companies)
	assert.Equal(t, a.Embedding, got.Embedding)
	assert.False(t, got.Starred)
}

func TestUpsertPreservesStar(t *testing.T) {
	c := newTestClient(t)

	a := testArticle("id1", "https://example.com/solar")
	require.NoError(t, c.UpsertArticle(a))

	found, err := c.SetStarred("id1", true)
	require.NoError(t, err)
	require.True(t, found)

	a.Title = "Updated title"
	require.NoError(t, c.UpsertArticle(a))

	got, err := c.GetArticle("id1")
	require.NoError(t, err)
	assert.Equal(t, "Updated title", got.Title)
	assert.True(t, got.Starred)
}

func TestSetStarredNotFound(t *testing.T) {
	c := newTestClient(t)

	found, err := c.SetStarred("missing", true)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListStarred(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.UpsertArticle(testArticle("id1", "https://example.com/a")))
	require.NoError(t, c.UpsertArticle(testArticle("id2", "https://example.com/b")))

	_, err := c.SetStarred("id2", true)
	require.NoError(t, err)

	starred, err := c.ListStarred()
	require.NoError(t, err)
	require.Len(t, starred, 1)
	assert.Equal(t, "id2", starred[0].ID)

	all, err := c.ListArticles()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteArticle(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.UpsertArticle(testArticle("id1", "https://example.com/a")))

	found, err := c.DeleteArticle("id1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.DeleteArticle("id1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestThesisHistory(t *testing.T) {
	c := newTestClient(t)

	latest, err := c.LatestThesis()
	require.NoError(t, err)
	assert.Nil(t, latest)

	first := &models.ThesisRecord{
		ID:           "t1",
		Title:        "v1",
		Text:         "Battery storage costs are falling.",
		PointCount:   1,
		KeywordCount: 3,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
	second := &models.ThesisRecord{
		ID:           "t2",
		Title:        "v2",
		Text:         "Grid integration is the bottleneck.",
		PointCount:   1,
		KeywordCount: 4,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, c.InsertThesisRecord(first))
	require.NoError(t, c.InsertThesisRecord(second))

	latest, err = c.LatestThesis()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "t2", latest.ID)
}
