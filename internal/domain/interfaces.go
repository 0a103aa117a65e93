package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Hit is one nearest-neighbour answer from a VectorIndex. Position refers to
// the row of the vector inside the array the index was built from.
type Hit struct {
	Position int
	Score    float64
}

// VectorIndex is the top-k similarity oracle over a fixed array of vectors.
// Vectors are expected to be L2-normalized so inner product equals cosine.
type VectorIndex interface {
	Name() string
	Build(ctx context.Context, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]Hit, error)
}

// Chunker splits one section of a parsed filing into retrieval chunks.
type Chunker interface {
	Chunk(doc ParsedDocument, section Section) []Chunk
}

// Retriever answers a text query with the top-k scored chunks.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]SearchResult, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
