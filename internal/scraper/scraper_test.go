package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factore-sourcing/backend/pkg/config"
)

func testScraper(respectRobots bool) *Scraper {
	return New(config.ScraperConfig{
		TimeoutSec:    5,
		RespectRobots: respectRobots,
	})
}

func TestFetch_ExtractsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><head>
			<title>Solar Growth Report</title>
			<meta name="author" content="A. Writer">
			<meta property="article:published_time" content="2024-03-01">
		</head><body>
			<nav>ignore this navigation</nav>
			<article>Solar adoption accelerates as battery storage costs fall.</article>
			<footer>ignore this footer</footer>
		</body></html>`))
	}))
	defer srv.Close()

	page, err := testScraper(true).Fetch(context.Background(), srv.URL+"/article")
	require.NoError(t, err)

	assert.Equal(t, "Solar Growth Report", page.Title)
	assert.Contains(t, page.Text, "Solar adoption accelerates")
	assert.NotContains(t, page.Text, "navigation")
	assert.Equal(t, []string{"A. Writer"}, page.Authors)
	assert.Equal(t, "2024-03-01", page.PublishDate)
	assert.Empty(t, page.Warning)
}

func TestFetch_RobotsDisallowAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		w.Write([]byte("<html><body>should not be reached</body></html>"))
	}))
	defer srv.Close()

	page, err := testScraper(true).Fetch(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.NotEmpty(t, page.Warning)
	assert.Empty(t, page.Text)
}

func TestFetch_PartialDisallowPermitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.Write([]byte("<html><title>Open</title><body><p>visible content here</p></body></html>"))
	}))
	defer srv.Close()

	page, err := testScraper(true).Fetch(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Empty(t, page.Warning)
	assert.Contains(t, page.Text, "visible content")
}

func TestFetch_ForbiddenStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	page, err := testScraper(true).Fetch(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Contains(t, page.Warning, "403")
}

func TestFetch_ServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testScraper(true).Fetch(context.Background(), srv.URL+"/article")
	assert.Error(t, err)
}

func TestFetch_AntiBotPageFlagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<html><body>Please verify you are human to continue.</body></html>"))
	}))
	defer srv.Close()

	page, err := testScraper(false).Fetch(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.NotEmpty(t, page.Warning)
}
