package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/storage/models"
	"github.com/factore-sourcing/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		summary TEXT,
		full_content TEXT,
		keywords TEXT,
		companies TEXT,
		embedding TEXT,
		publish_date TEXT,
		authors TEXT,
		starred INTEGER DEFAULT 0,
		warning TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_starred ON articles(starred);
	CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at);

	CREATE TABLE IF NOT EXISTS thesis_history (
		id TEXT PRIMARY KEY,
		title TEXT,
		text TEXT NOT NULL,
		point_count INTEGER NOT NULL,
		keyword_count INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_thesis_created ON thesis_history(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// UpsertArticle inserts an article, updating the scraped fields if the
// URL is already known. Starred state survives re-ingestion.
func (c *Client) UpsertArticle(a *models.Article) error {
	keywordsJSON, _ := json.Marshal(a.Keywords)
	companiesJSON, _ := json.Marshal(a.Companies)
	authorsJSON, _ := json.Marshal(a.Authors)
	embeddingJSON, _ := json.Marshal(a.Embedding)

	query := `
		INSERT INTO articles (id, url, title, summary, full_content, keywords, companies,
			embedding, publish_date, authors, starred, warning, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			full_content = excluded.full_content,
			keywords = excluded.keywords,
			companies = excluded.companies,
			embedding = excluded.embedding,
			publish_date = excluded.publish_date,
			authors = excluded.authors,
			warning = excluded.warning
	`

	starred := 0
	if a.Starred {
		starred = 1
	}

	_, err := c.db.Exec(
		query,
		a.ID,
		a.URL,
		a.Title,
		a.Summary,
		a.FullContent,
		string(keywordsJSON),
		string(companiesJSON),
		string(embeddingJSON),
		a.PublishDate,
		string(authorsJSON),
		starred,
		a.Warning,
		a.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	logger.Debug("Article stored", zap.String("article_id", a.ID), zap.String("url", a.URL))
	return nil
}

func (c *Client) GetArticle(id string) (*models.Article, error) {
	query := articleColumns + ` WHERE id = ?`

	row := c.db.QueryRow(query, id)
	a, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

func (c *Client) ListArticles() ([]models.Article, error) {
	return c.queryArticles(articleColumns + ` ORDER BY created_at DESC`)
}

func (c *Client) ListStarred() ([]models.Article, error) {
	return c.queryArticles(articleColumns + ` WHERE starred = 1 ORDER BY created_at DESC`)
}

// SetStarred flips the star flag and reports whether the article exists.
func (c *Client) SetStarred(id string, starred bool) (bool, error) {
	val := 0
	if starred {
		val = 1
	}

	res, err := c.db.Exec(`UPDATE articles SET starred = ? WHERE id = ?`, val, id)
	if err != nil {
		return false, fmt.Errorf("failed to update star: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (c *Client) DeleteArticle(id string) (bool, error) {
	res, err := c.db.Exec(`DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (c *Client) InsertThesisRecord(r *models.ThesisRecord) error {
	query := `
		INSERT INTO thesis_history (id, title, text, point_count, keyword_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		r.ID,
		r.Title,
		r.Text,
		r.PointCount,
		r.KeywordCount,
		r.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert thesis record: %w", err)
	}

	logger.Info("Thesis recorded",
		zap.String("thesis_id", r.ID),
		zap.Int("points", r.PointCount),
	)
	return nil
}

// LatestThesis returns the most recently stored thesis, or nil when
// none has been submitted yet.
func (c *Client) LatestThesis() (*models.ThesisRecord, error) {
	query := `
		SELECT id, title, text, point_count, keyword_count, created_at
		FROM thesis_history
		ORDER BY created_at DESC
		LIMIT 1
	`

	var r models.ThesisRecord
	var createdAt int64

	err := c.db.QueryRow(query).Scan(&r.ID, &r.Title, &r.Text, &r.PointCount, &r.KeywordCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest thesis: %w", err)
	}

	r.CreatedAt = time.Unix(createdAt, 0)
	return &r, nil
}

const articleColumns = `SELECT id, url, title, summary, full_content, keywords, companies,
	embedding, publish_date, authors, starred, warning, created_at FROM articles`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var keywordsJSON, companiesJSON, authorsJSON, embeddingJSON string
	var starred int
	var createdAt int64

	err := row.Scan(
		&a.ID,
		&a.URL,
		&a.Title,
		&a.Summary,
		&a.FullContent,
		&keywordsJSON,
		&companiesJSON,
		&embeddingJSON,
		&a.PublishDate,
		&authorsJSON,
		&starred,
		&a.Warning,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(keywordsJSON), &a.Keywords)
	json.Unmarshal([]byte(companiesJSON), &a.Companies)
	json.Unmarshal([]byte(authorsJSON), &a.Authors)
	json.Unmarshal([]byte(embeddingJSON), &a.Embedding)
	a.Starred = starred == 1
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

func (c *Client) queryArticles(query string, args ...interface{}) ([]models.Article, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}
