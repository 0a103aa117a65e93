// Package service runs the offline indexing pipeline and answers retrieval
// queries against what it produced.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"finqa/internal/artifact"
	"finqa/internal/domain"
	"finqa/internal/embedding"
	"finqa/internal/logger"
	"finqa/internal/parser"
	"finqa/internal/vectorstore"
)

// ErrNoDocuments means the data directory holds no filings to index.
var ErrNoDocuments = errors.New("no filings found")

type IndexOptions struct {
	// Company restricts indexing to filings with this prefix. Empty means all.
	Company             string
	SummaryMaxSentences int
}

// Indexer turns the filings in the data directory into a searchable index.
type Indexer struct {
	store      *artifact.Store
	chunker    domain.Chunker
	embedder   domain.Embedder
	index      domain.VectorIndex
	summarizer domain.Summarizer
	opts       IndexOptions
	log        *zap.Logger
}

func NewIndexer(store *artifact.Store, chunker domain.Chunker, embedder domain.Embedder, index domain.VectorIndex, summarizer domain.Summarizer, opts IndexOptions, log *zap.Logger) *Indexer {
	return &Indexer{
		store:      store,
		chunker:    chunker,
		embedder:   embedder,
		index:      index,
		summarizer: summarizer,
		opts:       opts,
		log:        logger.OrNop(log),
	}
}

// DiscoverFilings lists supported COMPANY_YEAR files in dir, sorted by name.
func DiscoverFilings(dir, company string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		c, _, err := parser.ParseFilename(e.Name())
		if err != nil {
			continue
		}
		if company != "" && !strings.EqualFold(c, company) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Run parses, chunks, embeds and indexes every filing, then writes the
// manifest. It returns ErrNoDocuments before touching any artifact when the
// data directory has nothing to index.
func (ix *Indexer) Run(ctx context.Context) (artifact.Manifest, error) {
	paths, err := DiscoverFilings(ix.store.DataDir, ix.opts.Company)
	if err != nil {
		return artifact.Manifest{}, fmt.Errorf("scan %s: %w", ix.store.DataDir, err)
	}
	if len(paths) == 0 {
		return artifact.Manifest{}, fmt.Errorf("%w in %s", ErrNoDocuments, ix.store.DataDir)
	}

	var (
		chunks    []domain.Chunk
		documents []string
		companies = map[string]struct{}{}
	)
	for _, p := range paths {
		doc, err := parser.ParseFiling(p)
		if err != nil {
			return artifact.Manifest{}, err
		}
		parsedPath, err := ix.store.SaveParsed(doc)
		if err != nil {
			return artifact.Manifest{}, fmt.Errorf("save parsed %s: %w", doc.SourceFile, err)
		}
		var docChunks []domain.Chunk
		for _, sec := range doc.Sections {
			docChunks = append(docChunks, ix.chunker.Chunk(doc, sec)...)
		}
		if err := ix.store.SaveChunks(ix.store.ChunksPath(doc.Company, doc.Year), docChunks); err != nil {
			return artifact.Manifest{}, fmt.Errorf("save chunks %s: %w", doc.SourceFile, err)
		}
		ix.log.Info("parsed filing",
			zap.String("file", doc.SourceFile),
			zap.String("parsed", parsedPath),
			zap.Int("sections", len(doc.Sections)),
			zap.Int("chunks", len(docChunks)))

		chunks = append(chunks, docChunks...)
		documents = append(documents, doc.SourceFile)
		companies[doc.Company] = struct{}{}
	}

	prefix := ""
	if len(companies) == 1 {
		for c := range companies {
			prefix = c
		}
	}
	if err := ix.store.SaveChunks(ix.store.CombinedChunksPath(prefix), chunks); err != nil {
		return artifact.Manifest{}, fmt.Errorf("save combined chunks: %w", err)
	}
	if len(chunks) == 0 {
		return artifact.Manifest{}, errors.New("filings produced no chunks; every section is below the minimum length")
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	if err := ix.embedder.Prepare(texts); err != nil {
		return artifact.Manifest{}, fmt.Errorf("prepare embedder: %w", err)
	}
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return artifact.Manifest{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return artifact.Manifest{}, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", artifact.ErrMisaligned, len(vectors), len(chunks))
	}
	records := make([]domain.EmbeddingRecord, len(chunks))
	for i := range chunks {
		records[i] = domain.EmbeddingRecord{Chunk: chunks[i], Vector: vectors[i]}
	}
	if err := ix.store.SaveRecords(records); err != nil {
		return artifact.Manifest{}, err
	}

	if err := ix.index.Build(ctx, vectors); err != nil {
		return artifact.Manifest{}, fmt.Errorf("build %s index: %w", ix.index.Name(), err)
	}
	if p, ok := ix.index.(vectorstore.Persistent); ok {
		if err := p.Save(ix.store.IndexPath(artifact.IndexFile)); err != nil {
			return artifact.Manifest{}, fmt.Errorf("save index: %w", err)
		}
	}
	if p, ok := ix.embedder.(embedding.Persister); ok {
		if err := p.SaveState(ix.store.IndexPath(artifact.EmbedderFile)); err != nil {
			return artifact.Manifest{}, fmt.Errorf("save embedder state: %w", err)
		}
	}

	summary, err := ix.summarizer.Summarize(strings.Join(texts, "\n"), ix.opts.SummaryMaxSentences)
	if err != nil {
		return artifact.Manifest{}, fmt.Errorf("summarize: %w", err)
	}
	m := artifact.Manifest{
		Embedder:    ix.embedder.Name(),
		Dimension:   ix.embedder.Dimension(),
		VectorStore: ix.index.Name(),
		Documents:   documents,
		Chunks:      len(chunks),
		Summary:     summary,
		BuiltAt:     time.Now().UTC(),
	}
	if err := ix.store.SaveManifest(m); err != nil {
		return artifact.Manifest{}, fmt.Errorf("save manifest: %w", err)
	}
	ix.log.Info("index built",
		zap.Int("documents", len(documents)),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", m.Dimension),
		zap.String("embedder", m.Embedder),
		zap.String("vector_store", m.VectorStore))
	return m, nil
}
