package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/pkg/logger"
)

// Client mirrors ingested article embeddings into a Milvus collection
// so similar-article lookups can run server-side. The collection is an
// optional acceleration layer; ranking never depends on it.
type Client struct {
	client         client.Client
	collectionName string
	vectorDim      int
}

type ArticleVector struct {
	ID        string
	Embedding []float32
	URL       string
	Title     string
	Summary   string
	Timestamp time.Time
}

type SimilarResult struct {
	ArticleID string
	URL       string
	Title     string
	Summary   string
	Score     float32
}

func NewClient(endpoint, apiKey, collectionName string, vectorDim int) (*Client, error) {
	c, err := client.NewGrpcClient(
		context.Background(),
		endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	logger.Info("Milvus client initialized",
		zap.String("endpoint", endpoint),
		zap.String("collection", collectionName),
	)

	return &Client{
		client:         c,
		collectionName: collectionName,
		vectorDim:      vectorDim,
	}, nil
}

func (m *Client) Close() error {
	return m.client.Close()
}

func (m *Client) CreateCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if has {
		logger.Info("Collection already exists", zap.String("collection", m.collectionName))
		return nil
	}

	schema := &entity.Schema{
		CollectionName: m.collectionName,
		Description:    "Ingested article embeddings",
		Fields: []*entity.Field{
			{
				Name:       "article_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.vectorDim),
				},
			},
			{
				Name:     "url",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "title",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "summary",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "1024",
				},
			},
			{
				Name:     "timestamp",
				DataType: entity.FieldTypeInt64,
			},
		},
	}

	err = m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx, err := entity.NewIndexIvfFlat(entity.L2, 1024)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	err = m.client.CreateIndex(ctx, m.collectionName, "embedding", idx, false)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = m.client.LoadCollection(ctx, m.collectionName, false)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	logger.Info("Collection created and loaded", zap.String("collection", m.collectionName))

	return nil
}

func (m *Client) Insert(ctx context.Context, vectors []ArticleVector) error {
	if len(vectors) == 0 {
		return nil
	}

	ids := make([]string, len(vectors))
	embeddings := make([][]float32, len(vectors))
	urls := make([]string, len(vectors))
	titles := make([]string, len(vectors))
	summaries := make([]string, len(vectors))
	timestamps := make([]int64, len(vectors))

	for i, v := range vectors {
		ids[i] = v.ID
		embeddings[i] = v.Embedding
		urls[i] = v.URL
		titles[i] = v.Title
		summaries[i] = v.Summary
		timestamps[i] = v.Timestamp.Unix()
	}

	_, err := m.client.Insert(
		ctx,
		m.collectionName,
		"",
		entity.NewColumnVarChar("article_id", ids),
		entity.NewColumnFloatVector("embedding", m.vectorDim, embeddings),
		entity.NewColumnVarChar("url", urls),
		entity.NewColumnVarChar("title", titles),
		entity.NewColumnVarChar("summary", summaries),
		entity.NewColumnInt64("timestamp", timestamps),
	)

	if err != nil {
		return fmt.Errorf("failed to insert article vectors: %w", err)
	}

	err = m.client.Flush(ctx, m.collectionName, false)
	if err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	logger.Info("Article vectors inserted", zap.Int("count", len(vectors)))

	return nil
}

// SearchSimilar returns the topK stored articles nearest to the query
// embedding.
func (m *Client) SearchSimilar(ctx context.Context, queryEmbedding []float32, topK int) ([]SimilarResult, error) {
	sp, _ := entity.NewIndexIvfFlatSearchParam(16)

	searchResult, err := m.client.Search(
		ctx,
		m.collectionName,
		[]string{},
		"",
		[]string{"article_id", "url", "title", "summary"},
		[]entity.Vector{entity.FloatVector(queryEmbedding)},
		"embedding",
		entity.L2,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SimilarResult, 0)
	for _, sr := range searchResult {
		for i := 0; i < sr.ResultCount; i++ {
			idCol := sr.Fields.GetColumn("article_id")
			urlCol := sr.Fields.GetColumn("url")
			titleCol := sr.Fields.GetColumn("title")
			summaryCol := sr.Fields.GetColumn("summary")

			id, _ := idCol.Get(i)
			url, _ := urlCol.Get(i)
			title, _ := titleCol.Get(i)
			summary, _ := summaryCol.Get(i)

			results = append(results, SimilarResult{
				ArticleID: id.(string),
				URL:       url.(string),
				Title:     title.(string),
				Summary:   summary.(string),
				Score:     sr.Scores[i],
			})
		}
	}

	logger.Info("Similar-article search completed",
		zap.Int("topK", topK),
		zap.Int("results", len(results)),
	)

	return results, nil
}
