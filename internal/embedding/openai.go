package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/factore-sourcing/backend/internal/metrics"
	"github.com/factore-sourcing/backend/pkg/circuitbreaker"
	"github.com/factore-sourcing/backend/pkg/config"
	"github.com/factore-sourcing/backend/pkg/logger"
	"github.com/factore-sourcing/backend/pkg/retry"
	"github.com/factore-sourcing/backend/pkg/textutil"
)

// OpenAI calls the embeddings API behind a circuit breaker with
// retries, consults the cache first, and falls back to the offline
// hash provider whenever the remote call cannot be completed.
type OpenAI struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	cache    Cache
	fallback *OfflineHash
	cb       *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
}

func NewOpenAI(cfg config.EmbeddingConfig, cache Cache) *OpenAI {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cb := circuitbreaker.New("embedding", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
		Logger:           logger.GetLogger(),
	})

	retryCfg := retry.Config{
		Attempts:  3,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  5 * time.Second,
		Factor:    2.0,
		Jitter:    0.1,
		Logger:    logger.GetLogger(),
	}

	return &OpenAI{
		client:   openai.NewClient(cfg.APIKey),
		model:    cfg.Model,
		timeout:  timeout,
		cache:    cache,
		fallback: NewOfflineHash(cfg.Dim),
		cb:       cb,
		retryCfg: retryCfg,
	}
}

func (o *OpenAI) Dimension() int {
	return o.fallback.Dimension()
}

func (o *OpenAI) Embed(ctx context.Context, text string) []float32 {
	key := textutil.HashString(text)
	if o.cache != nil {
		if vec, ok := o.cache.GetEmbedding(ctx, key); ok && len(vec) == o.Dimension() {
			return vec
		}
	}

	vec, err := o.remoteEmbed(ctx, text)
	if err != nil {
		metrics.EmbeddingFallbacks.Inc()
		logger.Warn("remote embedding failed, using hash fallback",
			zap.Error(err),
			zap.Int("text_length", len(text)),
		)
		return o.fallback.Embed(ctx, text)
	}

	if o.cache != nil {
		o.cache.SetEmbedding(ctx, key, vec)
	}
	return vec
}

func (o *OpenAI) remoteEmbed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var embedding []float32

	err := o.cb.Execute(ctx, func() error {
		return retry.Do(ctx, o.retryCfg, func() error {
			resp, err := o.client.CreateEmbeddings(
				ctx,
				openai.EmbeddingRequest{
					Input: []string{text},
					Model: openai.EmbeddingModel(o.model),
				},
			)
			if err != nil {
				return fmt.Errorf("create embeddings: %w", err)
			}
			if len(resp.Data) == 0 {
				return fmt.Errorf("embeddings response carried no data")
			}

			embedding = make([]float32, len(resp.Data[0].Embedding))
			copy(embedding, resp.Data[0].Embedding)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if len(embedding) != o.Dimension() {
		return nil, fmt.Errorf("embedding dimension %d, want %d", len(embedding), o.Dimension())
	}
	return embedding, nil
}
