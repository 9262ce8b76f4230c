package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/metrics"
	"github.com/factore-sourcing/backend/internal/relevance"
	"github.com/factore-sourcing/backend/internal/storage/models"
	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/pkg/logger"
)

type MatchesHandler struct {
	engine *relevance.Engine
	db     *sqlite.Client
}

func NewMatchesHandler(engine *relevance.Engine, db *sqlite.Client) *MatchesHandler {
	return &MatchesHandler{
		engine: engine,
		db:     db,
	}
}

// GetMatches ranks every stored source against the active thesis.
func (h *MatchesHandler) GetMatches(c *fiber.Ctx) error {
	articles, err := h.db.ListArticles()
	if err != nil {
		logger.Error("Failed to list sources", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list sources",
		})
	}

	results := h.rank(c, articles)

	return c.JSON(fiber.Map{
		"matches":    results,
		"count":      len(results),
		"has_thesis": h.engine.HasThesis(),
	})
}

// GetStarredMatches ranks only the starred sources.
func (h *MatchesHandler) GetStarredMatches(c *fiber.Ctx) error {
	articles, err := h.db.ListStarred()
	if err != nil {
		logger.Error("Failed to list starred sources", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list starred sources",
		})
	}

	results := h.rank(c, articles)

	return c.JSON(fiber.Map{
		"matches":    results,
		"count":      len(results),
		"has_thesis": h.engine.HasThesis(),
	})
}

func (h *MatchesHandler) rank(c *fiber.Ctx, articles []models.Article) []models.MatchResult {
	start := time.Now()
	results := h.engine.Rank(c.Context(), articles)
	metrics.RankDuration.Observe(time.Since(start).Seconds())
	for _, r := range results {
		metrics.RelevanceScore.Observe(r.RelevanceScore)
	}
	return results
}
