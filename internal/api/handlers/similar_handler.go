package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/internal/vector/milvus"
	"github.com/factore-sourcing/backend/pkg/logger"
)

type SimilarHandler struct {
	vectorDB *milvus.Client
	db       *sqlite.Client
}

func NewSimilarHandler(vectorDB *milvus.Client, db *sqlite.Client) *SimilarHandler {
	return &SimilarHandler{
		vectorDB: vectorDB,
		db:       db,
	}
}

// GetSimilar returns sources nearest to a given source's embedding,
// served from the vector mirror.
func (h *SimilarHandler) GetSimilar(c *fiber.Ctx) error {
	if h.vectorDB == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Similarity search is not enabled",
		})
	}

	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id query parameter is required",
		})
	}

	topK := 5
	if v := c.Query("top_k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			topK = n
		}
	}

	article, err := h.db.GetArticle(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Source not found",
		})
	}

	if len(article.Embedding) == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Source has no embedding",
		})
	}

	// topK+1 because the article itself comes back as its own nearest
	// neighbor.
	results, err := h.vectorDB.SearchSimilar(c.Context(), article.Embedding, topK+1)
	if err != nil {
		logger.Error("Similarity search failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Similarity search failed",
		})
	}

	filtered := make([]milvus.SimilarResult, 0, topK)
	for _, r := range results {
		if r.ArticleID == id {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) == topK {
			break
		}
	}

	return c.JSON(fiber.Map{
		"id":      id,
		"similar": filtered,
		"count":   len(filtered),
	})
}
