package handlers

import (
	"context"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/relevance"
	"github.com/factore-sourcing/backend/internal/storage/sqlite"
	"github.com/factore-sourcing/backend/pkg/logger"
)

// WebSocketHandler streams match updates to connected clients.
// Clients get the full ranked match list on connect, on request
// ({"type":"matches"}), and whenever a thesis or source change
// triggers a broadcast.
type WebSocketHandler struct {
	engine *relevance.Engine
	db     *sqlite.Client

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWebSocketHandler(engine *relevance.Engine, db *sqlite.Client) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
		db:     db,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	h.sendMatches(context.Background(), c)

	for {
		var msg struct {
			Type string `json:"type"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		switch msg.Type {
		case "matches":
			h.sendMatches(context.Background(), c)
		case "ping":
			c.WriteJSON(map[string]interface{}{"type": "pong"})
		}
	}
}

// BroadcastMatches recomputes the ranked matches and pushes them to
// every connected client. Safe to call with no clients connected.
func (h *WebSocketHandler) BroadcastMatches(ctx context.Context) {
	h.mu.Lock()
	if len(h.conns) == 0 {
		h.mu.Unlock()
		return
	}
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	payload, ok := h.matchesPayload(ctx)
	if !ok {
		return
	}

	for _, c := range conns {
		if err := c.WriteJSON(payload); err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
		}
	}
}

func (h *WebSocketHandler) sendMatches(ctx context.Context, c *websocket.Conn) {
	payload, ok := h.matchesPayload(ctx)
	if !ok {
		c.WriteJSON(map[string]interface{}{
			"type":  "error",
			"error": "Failed to load matches",
		})
		return
	}

	if err := c.WriteJSON(payload); err != nil {
		logger.Debug("WebSocket write failed", zap.Error(err))
	}
}

func (h *WebSocketHandler) matchesPayload(ctx context.Context) (map[string]interface{}, bool) {
	articles, err := h.db.ListArticles()
	if err != nil {
		logger.Error("Failed to list sources for broadcast", zap.Error(err))
		return nil, false
	}

	results := h.engine.Rank(ctx, articles)

	return map[string]interface{}{
		"type":       "matches",
		"matches":    results,
		"count":      len(results),
		"has_thesis": h.engine.HasThesis(),
	}, true
}
