package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/ingestion"
	"github.com/factore-sourcing/backend/internal/metrics"
	"github.com/factore-sourcing/backend/internal/storage/models"
	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/pkg/logger"
)

type SourcesHandler struct {
	processor *ingestion.Processor
	db        *sqlite.Client
	notifier  *WebSocketHandler
}

func NewSourcesHandler(processor *ingestion.Processor, db *sqlite.Client, notifier *WebSocketHandler) *SourcesHandler {
	return &SourcesHandler{
		processor: processor,
		db:        db,
		notifier:  notifier,
	}
}

// AddSource ingests a source. With pasted content the scraper is
// bypassed; otherwise the URL is fetched and extracted.
func (h *SourcesHandler) AddSource(c *fiber.Ctx) error {
	var req struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "URL is required",
		})
	}

	start := time.Now()
	sourceType := "url"

	var article *models.Article
	var err error
	if req.Content != "" {
		sourceType = "pasted"
		article, err = h.processor.IngestText(c.Context(), req.URL, req.Title, req.Content)
	} else {
		article, err = h.processor.IngestURL(c.Context(), req.URL)
	}
	if err != nil {
		metrics.IngestTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to ingest source", zap.String("url", req.URL), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to ingest source",
		})
	}

	metrics.IngestTotal.WithLabelValues("success").Inc()
	metrics.IngestDuration.WithLabelValues(sourceType).Observe(time.Since(start).Seconds())
	metrics.ArticlesStored.Inc()

	h.notifier.BroadcastMatches(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        article.ID,
		"url":       article.URL,
		"title":     article.Title,
		"summary":   article.Summary,
		"keywords":  article.Keywords,
		"companies": article.Companies,
		"warning":   article.Warning,
	})
}

// StarSource sets or clears the star on a source. An absent body
// means star.
func (h *SourcesHandler) StarSource(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Starred *bool `json:"starred"`
	}
	starred := true
	if err := c.BodyParser(&req); err == nil && req.Starred != nil {
		starred = *req.Starred
	}

	found, err := h.db.SetStarred(id, starred)
	if err != nil {
		logger.Error("Failed to update star", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update star",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Source not found",
		})
	}

	return c.JSON(fiber.Map{
		"id":      id,
		"starred": starred,
	})
}

func (h *SourcesHandler) ListStarred(c *fiber.Ctx) error {
	articles, err := h.db.ListStarred()
	if err != nil {
		logger.Error("Failed to list starred sources", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list starred sources",
		})
	}

	return c.JSON(fiber.Map{
		"sources": articles,
		"count":   len(articles),
	})
}

func (h *SourcesHandler) DeleteSource(c *fiber.Ctx) error {
	id := c.Params("id")

	found, err := h.db.DeleteArticle(id)
	if err != nil {
		logger.Error("Failed to delete source", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete source",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Source not found",
		})
	}

	h.notifier.BroadcastMatches(c.Context())

	return c.JSON(fiber.Map{
		"id":      id,
		"deleted": true,
	})
}
