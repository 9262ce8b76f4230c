package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/pkg/config"
	"github.com/factore-sourcing/backend/pkg/logger"
)

// Provider produces a fixed-dimension embedding for a piece of text.
// Implementations never fail: a provider that loses its backend
// degrades to a deterministic local embedding instead of returning an
// error.
type Provider interface {
	Embed(ctx context.Context, text string) []float32
	Dimension() int
}

// Cache stores embeddings keyed by a content hash. Both methods are
// best-effort; a miss or a broken cache never surfaces as an error.
type Cache interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, bool)
	SetEmbedding(ctx context.Context, key string, vec []float32)
}

// Select picks the provider for the configured mode. An empty API key
// always means the offline hash provider regardless of configuration.
func Select(cfg config.EmbeddingConfig, cache Cache) Provider {
	if cfg.Provider == "openai" && cfg.APIKey != "" {
		logger.Info("embedding provider selected",
			zap.String("provider", "openai"),
			zap.String("model", cfg.Model),
		)
		return NewOpenAI(cfg, cache)
	}

	logger.Info("embedding provider selected",
		zap.String("provider", "offline"),
		zap.Int("dimension", cfg.Dim),
	)
	return NewOfflineHash(cfg.Dim)
}
