package flat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"finqa/internal/artifact"
	"finqa/internal/domain"
	"finqa/internal/embedding"
)

// Index is an exact inner-product index. Build stores L2-normalized copies of
// the input, so scores are cosine similarities.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
}

func NewIndex() *Index { return &Index{} }

func (x *Index) Name() string { return "flat" }

func (x *Index) Build(_ context.Context, vectors [][]float64) error {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	normalized := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: row %d has dimension %d, expected %d", artifact.ErrMisaligned, i, len(v), dim)
		}
		c := append([]float64(nil), v...)
		embedding.NormalizeL2(c)
		normalized[i] = c
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.dimension = dim
	x.vectors = normalized
	return nil
}

// Search returns up to topK hits by descending score. Equal scores keep
// build order.
func (x *Index) Search(_ context.Context, vector []float64, topK int) ([]domain.Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.vectors) > 0 && len(vector) != x.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(vector), x.dimension)
	}
	if topK <= 0 {
		return nil, nil
	}
	hits := make([]domain.Hit, len(x.vectors))
	for i := range x.vectors {
		hits[i] = domain.Hit{Position: i, Score: dot(x.vectors[i], vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// Len reports how many vectors the index holds.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

func (x *Index) Save(path string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return artifact.WriteVectorsFile(path, x.vectors)
}

func (x *Index) Load(path string) error {
	vectors, err := artifact.ReadVectorsFile(path)
	if err != nil {
		return err
	}
	if len(vectors) == 0 {
		return errors.New("flat index file holds no vectors")
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.dimension = len(vectors[0])
	x.vectors = vectors
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
