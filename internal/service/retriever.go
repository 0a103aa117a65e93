package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"go.uber.org/zap"

	"finqa/internal/artifact"
	"finqa/internal/domain"
	"finqa/internal/embedding"
	"finqa/internal/logger"
	"finqa/internal/vectorstore"
)

// DefaultExcerptChars is how much chunk text a SearchResult carries.
const DefaultExcerptChars = 500

// Retriever answers queries from the artifacts on disk. Every call reloads
// metadata, vectors, embedder state and index, so a rebuilt index is picked up
// without a restart. Calls are serialized because the reload mutates the
// shared embedder and index.
type Retriever struct {
	mu           sync.Mutex
	store        *artifact.Store
	embedder     domain.Embedder
	index        domain.VectorIndex
	excerptChars int
	log          *zap.Logger
}

func NewRetriever(store *artifact.Store, embedder domain.Embedder, index domain.VectorIndex, excerptChars int, log *zap.Logger) *Retriever {
	if excerptChars <= 0 {
		excerptChars = DefaultExcerptChars
	}
	return &Retriever{
		store:        store,
		embedder:     embedder,
		index:        index,
		excerptChars: excerptChars,
		log:          logger.OrNop(log),
	}
}

// Retrieve returns up to topK results in the order the index ranks them.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.LoadRecords()
	if err != nil {
		return nil, err
	}
	if err := r.loadState(); err != nil {
		return nil, err
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vec = append([]float64(nil), vec...)
	embedding.NormalizeL2(vec)
	if embedding.IsZero(vec) {
		r.log.Debug("query has no known terms, using lexical overlap", zap.String("query", query))
		return r.results(records, lexicalSearch(query, records, topK)), nil
	}

	hits, err := r.index.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search %s index: %w", r.index.Name(), err)
	}
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(records) {
			return nil, fmt.Errorf("%w: hit position %d outside %d records", artifact.ErrMisaligned, h.Position, len(records))
		}
	}
	r.log.Debug("retrieved", zap.String("query", query), zap.Int("hits", len(hits)))
	return r.results(records, hits), nil
}

func (r *Retriever) loadState() error {
	if p, ok := r.embedder.(embedding.Persister); ok {
		if err := p.LoadState(r.store.IndexPath(artifact.EmbedderFile)); err != nil {
			return notBuilt("load embedder state", err)
		}
	}
	if p, ok := r.index.(vectorstore.Persistent); ok {
		if err := p.Load(r.store.IndexPath(artifact.IndexFile)); err != nil {
			return notBuilt("load index", err)
		}
	}
	return nil
}

func notBuilt(what string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return artifact.ErrIndexNotBuilt
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (r *Retriever) results(records []domain.EmbeddingRecord, hits []domain.Hit) []domain.SearchResult {
	out := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		ch := records[h.Position].Chunk
		out[i] = domain.SearchResult{Chunk: ch, Score: h.Score, Excerpt: Excerpt(ch.Text, r.excerptChars)}
	}
	return out
}

// Excerpt returns the first n characters of text with newlines flattened to
// spaces.
func Excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}
