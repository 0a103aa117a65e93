package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"finqa/internal/domain"
)

const upsertBatchSize = 256

// Index is a minimal REST client to Qdrant. Each point id is the row position
// of its vector, so hits map straight back onto the chunk metadata.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	log        *zap.Logger
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewIndex(cfg Config, log *zap.Logger) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Index{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (s *Index) Name() string { return "qdrant" }

// Build drops the collection, recreates it with dot-product distance and
// uploads every vector.
func (s *Index) Build(ctx context.Context, vectors [][]float64) error {
	if len(vectors) == 0 {
		return errors.New("no vectors to index")
	}
	dim := len(vectors[0])
	if err := s.do(ctx, http.MethodDelete, s.collectionURL(), nil, nil); err != nil && !errors.Is(err, errNotFound) {
		return err
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Dot",
		},
	}
	if err := s.do(ctx, http.MethodPut, s.collectionURL(), body, nil); err != nil {
		return err
	}
	for start := 0; start < len(vectors); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(vectors))
		points := make([]map[string]any, 0, end-start)
		for i := start; i < end; i++ {
			if len(vectors[i]) != dim {
				return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vectors[i]), dim)
			}
			points = append(points, map[string]any{
				"id":      i,
				"vector":  vectors[i],
				"payload": map[string]any{"position": i},
			})
		}
		if err := s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", map[string]any{"points": points}, nil); err != nil {
			return err
		}
		s.log.Debug("qdrant upsert", zap.Int("from", start), zap.Int("to", end))
	}
	return nil
}

func (s *Index) Search(ctx context.Context, vector []float64, topK int) ([]domain.Hit, error) {
	if topK <= 0 {
		return nil, nil
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", req, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("qdrant collection %q: %w", s.collection, err)
		}
		return nil, err
	}
	hits := make([]domain.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		pos, ok := r.Payload["position"].(float64)
		if !ok {
			if pos, ok = r.ID.(float64); !ok {
				return nil, fmt.Errorf("qdrant hit without position: %v", r.ID)
			}
		}
		hits = append(hits, domain.Hit{Position: int(pos), Score: r.Score})
	}
	return hits, nil
}

var errNotFound = errors.New("not found")

func (s *Index) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.url, s.collection)
}

func (s *Index) do(ctx context.Context, method, url string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("qdrant %s %s: %w", method, url, errNotFound)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
