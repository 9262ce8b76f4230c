package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/embedding"
	"github.com/factore-sourcing/backend/internal/matching"
	"github.com/factore-sourcing/backend/internal/scraper"
	"github.com/factore-sourcing/backend/internal/storage/models"
	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/internal/vector/milvus"
	"github.com/factore-sourcing/backend/pkg/logger"
	"github.com/factore-sourcing/backend/pkg/textutil"
)

const maxArticleKeywords = 10

// Processor turns raw URLs and pasted text into stored articles:
// scrape, summarize, extract keywords and companies, embed, persist.
// The vector mirror is optional and failures there never fail ingest.
type Processor struct {
	db       *sqlite.Client
	vectorDB *milvus.Client
	scraper  *scraper.Scraper
	provider embedding.Provider
}

func NewProcessor(db *sqlite.Client, vectorDB *milvus.Client, sc *scraper.Scraper, provider embedding.Provider) *Processor {
	return &Processor{
		db:       db,
		vectorDB: vectorDB,
		scraper:  sc,
		provider: provider,
	}
}

// IngestURL scrapes a URL and stores the resulting article. Pages the
// site refuses to serve are stored with a warning and empty content so
// the caller can surface the refusal.
func (p *Processor) IngestURL(ctx context.Context, rawURL string) (*models.Article, error) {
	logger.Info("Ingesting URL", zap.String("url", rawURL))

	page, err := p.scraper.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape: %w", err)
	}

	article := p.buildArticle(ctx, page)

	if err := p.store(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// IngestText stores manually supplied content under the given URL,
// bypassing the scraper.
func (p *Processor) IngestText(ctx context.Context, rawURL, title, text string) (*models.Article, error) {
	page := &scraper.Page{
		URL:   rawURL,
		Title: title,
		Text:  text,
	}
	if page.Title == "" {
		page.Title = "Untitled"
	}

	article := p.buildArticle(ctx, page)

	if err := p.store(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (p *Processor) buildArticle(ctx context.Context, page *scraper.Page) *models.Article {
	text := strings.TrimSpace(page.Text)
	summary := matching.Summarize(text)

	article := &models.Article{
		ID:          textutil.HashString(page.URL),
		URL:         page.URL,
		Title:       page.Title,
		Summary:     summary,
		FullContent: text,
		Keywords:    matching.ExtractKeywords(text, maxArticleKeywords),
		Companies:   matching.ExtractCompanies(text),
		PublishDate: page.PublishDate,
		Authors:     page.Authors,
		Warning:     page.Warning,
		CreatedAt:   time.Now(),
	}

	if summary != "" {
		article.Embedding = p.provider.Embed(ctx, summary)
	}
	return article
}

func (p *Processor) store(ctx context.Context, article *models.Article) error {
	if err := p.db.UpsertArticle(article); err != nil {
		return fmt.Errorf("failed to store article: %w", err)
	}

	if p.vectorDB != nil && len(article.Embedding) > 0 {
		err := p.vectorDB.Insert(ctx, []milvus.ArticleVector{{
			ID:        article.ID,
			Embedding: article.Embedding,
			URL:       article.URL,
			Title:     article.Title,
			Summary:   article.Summary,
			Timestamp: article.CreatedAt,
		}})
		if err != nil {
			logger.Warn("Vector mirror insert failed",
				zap.String("article_id", article.ID),
				zap.Error(err),
			)
		}
	}

	logger.Info("Article ingested",
		zap.String("article_id", article.ID),
		zap.String("url", article.URL),
		zap.Int("keywords", len(article.Keywords)),
	)
	return nil
}
