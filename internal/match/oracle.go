package match

import (
	"context"
	"math"
	"time"

	"resumescore/internal/config"
	"resumescore/internal/errors"

	"google.golang.org/genai"
)

// Oracle scores the semantic similarity of two terms in [0,1]. Implementations
// must be safe for concurrent use. The matcher treats an Oracle as an optional
// capability: a nil Oracle means similarity matching is simply unavailable.
type Oracle interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
	IsHealthy() bool
	Stats() map[string]any
}

// EmbeddingOracle implements Oracle on Gemini text embeddings. Calls run under
// a short timeout and a circuit breaker; a run of consecutive failures opens
// the breaker for the remainder of the process lifetime.
type EmbeddingOracle struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	breaker *OracleBreaker
	logger  *errors.Logger
}

var _ Oracle = (*EmbeddingOracle)(nil)

// NewEmbeddingOracle creates the embedding oracle. Returns (nil, nil) when
// the oracle is disabled in configuration.
func NewEmbeddingOracle(ctx context.Context, cfg config.OracleConfig, logger *errors.Logger) (*EmbeddingOracle, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"oracle API key is required when the oracle is enabled", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewOracleError(errors.ErrCodeOracleFailed,
			"failed to create embedding client", err)
	}

	return &EmbeddingOracle{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		breaker: NewOracleBreaker(cfg.CircuitBreaker, logger),
		logger:  logger,
	}, nil
}

// Similarity embeds both terms in one request and returns their cosine
// similarity mapped into [0,1].
func (o *EmbeddingOracle) Similarity(ctx context.Context, a, b string) (float64, error) {
	return o.breaker.Execute(func() (float64, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()

		contents := genai.Text(a)
		contents = append(contents, genai.Text(b)...)

		resp, err := o.client.Models.EmbedContent(callCtx, o.model, contents, nil)
		if err != nil {
			if callCtx.Err() == context.DeadlineExceeded {
				return 0, errors.NewOracleError(errors.ErrCodeOracleTimeout,
					"embedding request timed out", err)
			}
			return 0, errors.NewOracleError(errors.ErrCodeOracleFailed,
				"embedding request failed", err)
		}

		if len(resp.Embeddings) < 2 {
			return 0, errors.NewOracleError(errors.ErrCodeOracleFailed,
				"embedding response missing vectors", nil).
				WithContext("embeddings", len(resp.Embeddings))
		}

		sim := cosineSimilarity(resp.Embeddings[0].Values, resp.Embeddings[1].Values)
		// Cosine lands in [-1,1]; scores below zero carry no signal here.
		return math.Max(0, sim), nil
	})
}

// IsHealthy reports whether the breaker still admits calls.
func (o *EmbeddingOracle) IsHealthy() bool {
	if o == nil {
		return false
	}
	return o.breaker.IsHealthy()
}

// Stats returns oracle status for the health endpoint.
func (o *EmbeddingOracle) Stats() map[string]any {
	if o == nil {
		return map[string]any{"enabled": false}
	}
	stats := map[string]any{
		"enabled": true,
		"model":   o.model,
	}
	stats["circuit_breaker"] = o.breaker.GetStats()
	return stats
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
