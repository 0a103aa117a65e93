package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"finqa/internal/agent"
	"finqa/internal/artifact"
	"finqa/internal/chunker"
	"finqa/internal/config"
	"finqa/internal/domain"
	"finqa/internal/embedding/openai"
	"finqa/internal/embedding/tfidf"
	"finqa/internal/logger"
	"finqa/internal/service"
	"finqa/internal/vectorstore/flat"
	"finqa/internal/vectorstore/qdrant"
)

// app holds what every subcommand needs.
type app struct {
	cfg   *config.AppConfig
	log   *zap.Logger
	store *artifact.Store
}

func loadApp(cfgPath string) (*app, error) {
	var (
		cfg  *config.AppConfig
		err  error
		used = cfgPath
	)
	if cfgPath == "" {
		cfg, used, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	log.Debug("config loaded", zap.String("path", used), zap.String("data_dir", cfg.DataDir), zap.String("index_dir", cfg.IndexDir))
	return &app{cfg: cfg, log: log, store: artifact.NewStore(cfg.DataDir, cfg.IndexDir)}, nil
}

func (a *app) embedder() (domain.Embedder, error) {
	switch a.cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(a.cfg.Embedder.MaxFeatures), nil
	case "openai":
		o := a.cfg.Embedder.OpenAI
		if o == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		emb, err := openai.NewEmbedder(openai.Config{
			BaseURL:    o.BaseURL,
			APIKeyEnv:  o.APIKeyEnv,
			Model:      o.Model,
			Timeout:    time.Duration(o.TimeoutSecs) * time.Second,
			BatchSize:  o.BatchSize,
			MaxRetries: o.MaxRetries,
		}, a.log.Named("openai"))
		if err != nil {
			return nil, err
		}
		return emb, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", a.cfg.Embedder.Type)
	}
}

func (a *app) vectorIndex() (domain.VectorIndex, error) {
	switch a.cfg.VectorStore.Type {
	case "flat", "":
		return flat.NewIndex(), nil
	case "qdrant":
		q := a.cfg.VectorStore.Qdrant
		if q == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewIndex(qdrant.Config{
			URL:        q.URL,
			APIKey:     os.ExpandEnv(q.APIKey),
			Collection: q.Collection,
			Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
		}, a.log.Named("qdrant")), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", a.cfg.VectorStore.Type)
	}
}

func (a *app) sectionChunker() domain.Chunker {
	c := a.cfg.Chunker
	return chunker.NewSentenceChunker(c.ChunkSizeChars, c.OverlapChars, c.MinSectionChars)
}

// synthesizer wires retrieval over the on-disk index into the answer agent.
func (a *app) synthesizer() (*agent.Synthesizer, error) {
	emb, err := a.embedder()
	if err != nil {
		return nil, err
	}
	idx, err := a.vectorIndex()
	if err != nil {
		return nil, err
	}
	retriever := service.NewRetriever(a.store, emb, idx, a.cfg.Retrieval.ExcerptChars, a.log.Named("retriever"))
	return agent.NewSynthesizer(retriever, a.cfg.Agent.Entity, a.cfg.Retrieval.TopK, a.log.Named("agent")), nil
}
