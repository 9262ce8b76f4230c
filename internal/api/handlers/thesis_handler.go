package handlers

import (
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/metrics"
	"github.com/factore-sourcing/backend/internal/relevance"
	"github.com/factore-sourcing/backend/internal/storage/models"
	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/pkg/logger"
)

type ThesisHandler struct {
	engine   *relevance.Engine
	db       *sqlite.Client
	notifier *WebSocketHandler
}

func NewThesisHandler(engine *relevance.Engine, db *sqlite.Client, notifier *WebSocketHandler) *ThesisHandler {
	return &ThesisHandler{
		engine:   engine,
		db:       db,
		notifier: notifier,
	}
}

// SubmitText installs a thesis from raw text.
func (h *ThesisHandler) SubmitText(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Thesis text is required",
		})
	}

	return h.install(c, req.Title, req.Text)
}

// SubmitUpload installs a thesis from an uploaded text file.
func (h *ThesisHandler) SubmitUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Thesis file is required",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded thesis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read uploaded thesis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Uploaded thesis is empty",
		})
	}

	return h.install(c, fileHeader.Filename, text)
}

func (h *ThesisHandler) install(c *fiber.Ctx, title, text string) error {
	points, keywords, err := h.engine.SubmitThesis(c.Context(), text)
	if err != nil {
		logger.Error("Failed to install thesis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process thesis",
		})
	}

	record := &models.ThesisRecord{
		ID:           uuid.New().String(),
		Title:        title,
		Text:         text,
		PointCount:   points,
		KeywordCount: keywords,
		CreatedAt:    time.Now(),
	}
	if err := h.db.InsertThesisRecord(record); err != nil {
		logger.Warn("Failed to persist thesis record", zap.Error(err))
	}

	metrics.ThesisSubmissions.Inc()
	metrics.ThesisPoints.Observe(float64(points))

	h.notifier.BroadcastMatches(c.Context())

	return c.JSON(fiber.Map{
		"id":            record.ID,
		"point_count":   points,
		"keyword_count": keywords,
	})
}

// GetThesis reports the active thesis, or 404 before any submission.
func (h *ThesisHandler) GetThesis(c *fiber.Ctx) error {
	thesis, ok := h.engine.Thesis()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No thesis uploaded yet",
		})
	}

	return c.JSON(fiber.Map{
		"points":   thesis.Points,
		"keywords": thesis.Keywords,
	})
}
