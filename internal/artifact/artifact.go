// Package artifact reads and writes the files the indexer produces and the
// query path consumes.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"finqa/internal/domain"
)

const (
	EmbeddingsFile = "embeddings.bin"
	MetaFile       = "chunks_meta.json"
	IndexFile      = "index.bin"
	EmbedderFile   = "embedder.json"
	ManifestFile   = "manifest.json"
)

var (
	// ErrIndexNotBuilt is returned when query-time artifacts are missing.
	// errors.Is(err, fs.ErrNotExist) also holds.
	ErrIndexNotBuilt = fmt.Errorf("index not built; run `finqa index` first: %w", fs.ErrNotExist)
	// ErrMisaligned is returned when vectors and metadata disagree in count or
	// dimension.
	ErrMisaligned = errors.New("embeddings and chunk metadata are misaligned")
)

// Manifest describes a built index.
type Manifest struct {
	Embedder    string    `json:"embedder"`
	Dimension   int       `json:"dimension"`
	VectorStore string    `json:"vector_store"`
	Documents   []string  `json:"documents"`
	Chunks      int       `json:"chunks"`
	Summary     string    `json:"summary"`
	BuiltAt     time.Time `json:"built_at"`
}

// Store resolves artifact paths under a data directory and an index directory.
type Store struct {
	DataDir  string
	IndexDir string
}

func NewStore(dataDir, indexDir string) *Store {
	return &Store{DataDir: dataDir, IndexDir: indexDir}
}

// IndexPath returns the path of a file inside the index directory.
func (s *Store) IndexPath(name string) string { return filepath.Join(s.IndexDir, name) }

// ParsedPath is where the parsed form of a filing is written.
func (s *Store) ParsedPath(company string, year int) string {
	return filepath.Join(s.DataDir, fmt.Sprintf("%s_%d_parsed.json", company, year))
}

// ChunksPath is where the chunks of a single filing are written.
func (s *Store) ChunksPath(company string, year int) string {
	return filepath.Join(s.DataDir, fmt.Sprintf("%s_%d_chunks.json", company, year))
}

// CombinedChunksPath is where chunks from every filing are written together.
// prefix is the company when all filings share one, "all" otherwise.
func (s *Store) CombinedChunksPath(prefix string) string {
	if prefix == "" {
		return filepath.Join(s.DataDir, "all_chunks.json")
	}
	return filepath.Join(s.DataDir, prefix+"_all_chunks.json")
}

func (s *Store) SaveParsed(doc domain.ParsedDocument) (string, error) {
	path := s.ParsedPath(doc.Company, doc.Year)
	return path, WriteJSON(path, doc)
}

func (s *Store) SaveChunks(path string, chunks []domain.Chunk) error {
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	return WriteJSON(path, chunks)
}

// SaveRecords persists vectors and metadata as two positionally aligned files.
func (s *Store) SaveRecords(records []domain.EmbeddingRecord) error {
	if err := os.MkdirAll(s.IndexDir, 0o755); err != nil {
		return err
	}
	chunks := make([]domain.Chunk, len(records))
	vectors := make([][]float64, len(records))
	for i, r := range records {
		chunks[i] = r.Chunk
		vectors[i] = r.Vector
	}
	if err := WriteVectorsFile(s.IndexPath(EmbeddingsFile), vectors); err != nil {
		return fmt.Errorf("write embeddings: %w", err)
	}
	if err := WriteJSON(s.IndexPath(MetaFile), chunks); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// LoadMeta reads the chunk metadata sequence.
func (s *Store) LoadMeta() ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	if err := ReadJSON(s.IndexPath(MetaFile), &chunks); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexNotBuilt
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return chunks, nil
}

// LoadRecords reads vectors and metadata back and checks they line up.
func (s *Store) LoadRecords() ([]domain.EmbeddingRecord, error) {
	chunks, err := s.LoadMeta()
	if err != nil {
		return nil, err
	}
	vectors, err := ReadVectorsFile(s.IndexPath(EmbeddingsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexNotBuilt
		}
		return nil, fmt.Errorf("read embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d vectors, %d chunks", ErrMisaligned, len(vectors), len(chunks))
	}
	records := make([]domain.EmbeddingRecord, len(chunks))
	for i := range chunks {
		records[i] = domain.EmbeddingRecord{Chunk: chunks[i], Vector: vectors[i]}
	}
	return records, nil
}

func (s *Store) SaveManifest(m Manifest) error {
	return WriteJSON(s.IndexPath(ManifestFile), m)
}

func (s *Store) LoadManifest() (Manifest, error) {
	var m Manifest
	if err := ReadJSON(s.IndexPath(ManifestFile), &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, ErrIndexNotBuilt
		}
		return Manifest{}, err
	}
	return m, nil
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
