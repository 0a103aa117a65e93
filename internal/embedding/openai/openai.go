package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"finqa/internal/embedding"
)

// Embedder calls an OpenAI-compatible /embeddings endpoint.
type Embedder struct {
	client    sdk.Client
	model     string
	batchSize int
	dimension int
	log       *zap.Logger
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	BatchSize  int
	MaxRetries int
}

// NewEmbedder creates a new embeddings client using the provided configuration.
func NewEmbedder(cfg Config, log *zap.Logger) (*Embedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	client := sdk.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	)
	return &Embedder{client: client, model: cfg.Model, batchSize: cfg.BatchSize, log: log}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "openai:" + e.model }

// Prepare is not required for remote embedding. Dimension is set on first embed.
func (e *Embedder) Prepare(corpus []string) error { return nil }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns an embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in batches, preserving input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		batch := texts[start:end]
		resp, err := e.client.Embeddings.New(ctx, sdk.EmbeddingNewParams{
			Input: sdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
			Model: sdk.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai embeddings: asked for %d vectors, got %d", len(batch), len(resp.Data))
		}
		data := resp.Data
		sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
		for _, d := range data {
			if len(d.Embedding) == 0 {
				return nil, errors.New("empty embedding")
			}
			if e.dimension == 0 {
				e.dimension = len(d.Embedding)
			}
			if len(d.Embedding) != e.dimension {
				return nil, fmt.Errorf("embedding dimension changed from %d to %d", e.dimension, len(d.Embedding))
			}
			v := append([]float64(nil), d.Embedding...)
			embedding.NormalizeL2(v)
			out = append(out, v)
		}
		e.log.Debug("embedded batch", zap.Int("from", start), zap.Int("to", end), zap.String("model", e.model))
	}
	return out, nil
}
