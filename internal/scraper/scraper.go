package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/metrics"
	"github.com/factore-sourcing/backend/pkg/config"
	"github.com/factore-sourcing/backend/pkg/logger"
)

// Page holds the extracted content of a scraped article page.
type Page struct {
	URL         string
	Title       string
	Text        string
	Authors     []string
	PublishDate string
	Warning     string
}

// Scraper fetches article pages with browser-like headers and extracts
// their content. Sites that refuse crawling produce a Page with a
// Warning rather than an error; only transport failures error out.
type Scraper struct {
	client        *http.Client
	userAgent     string
	respectRobots bool
}

var whitespaceRE = regexp.MustCompile(`\s+`)

func New(cfg config.ScraperConfig) *Scraper {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}

	return &Scraper{
		client:        &http.Client{Timeout: timeout},
		userAgent:     ua,
		respectRobots: cfg.RespectRobots,
	}
}

// Fetch retrieves and parses the page at rawURL.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if s.respectRobots {
		if blocked, reason := s.robotsBlocked(ctx, rawURL); blocked {
			metrics.ScrapesBlocked.Inc()
			logger.Warn("scraping blocked by robots policy",
				zap.String("url", rawURL),
				zap.String("reason", reason),
			)
			return &Page{URL: rawURL, Warning: reason}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return &Page{
			URL:     rawURL,
			Warning: fmt.Sprintf("site refused scraping (HTTP %d)", resp.StatusCode),
		}, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	page := s.extract(rawURL, doc)

	if warn := antiBotWarning(page.Text); warn != "" {
		metrics.ScrapesBlocked.Inc()
		page.Warning = warn
	}

	logger.Debug("page scraped",
		zap.String("url", rawURL),
		zap.Int("text_length", len(page.Text)),
	)
	return page, nil
}

// robotsBlocked applies a coarse robots.txt reading: the site is
// treated as closed only when its robots file disallows everything or
// forbids indexing. An unreachable robots file counts as permissive.
func (s *Scraper) robotsBlocked(ctx context.Context, rawURL string) (bool, string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, ""
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, ""
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, ""
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return false, ""
	}
	body := strings.ToLower(string(raw))

	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "disallow: /" {
			return true, "robots.txt disallows crawling this site"
		}
	}
	if strings.Contains(body, "noindex") {
		return true, "robots.txt forbids indexing this site"
	}
	return false, ""
}

func (s *Scraper) extract(rawURL string, doc *goquery.Document) *Page {
	doc.Find("script, style, nav, footer, header, aside, form, iframe").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = "Untitled"
	}

	// Prefer the article body when the page marks one up.
	body := doc.Find("article").First()
	if body.Length() == 0 {
		body = doc.Find("main").First()
	}
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	text := whitespaceRE.ReplaceAllString(strings.TrimSpace(body.Text()), " ")

	var authors []string
	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(i int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				authors = append(authors, v)
			}
		}
	})

	publishDate := ""
	if v, ok := doc.Find(`meta[property="article:published_time"]`).First().Attr("content"); ok {
		publishDate = strings.TrimSpace(v)
	}
	if publishDate == "" {
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			publishDate = strings.TrimSpace(v)
		}
	}

	return &Page{
		URL:         rawURL,
		Title:       title,
		Text:        text,
		Authors:     authors,
		PublishDate: publishDate,
	}
}

// antiBotWarning spots interstitial pages that came back 200 but carry
// a challenge instead of the article.
func antiBotWarning(text string) string {
	lower := strings.ToLower(text)
	markers := []string{
		"verify you are human",
		"access denied",
		"enable javascript and cookies",
		"captcha",
	}
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return "page returned an anti-bot challenge instead of content"
		}
	}
	return ""
}
