package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type        string                `yaml:"type"`
	MaxFeatures int                   `yaml:"max_features"`
	OpenAI      *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how sections are split into chunks.
type ChunkerConfig struct {
	ChunkSizeChars  int `yaml:"chunk_size_chars"`
	OverlapChars    int `yaml:"overlap_chars"`
	MinSectionChars int `yaml:"min_section_chars"`
}

// VectorStoreConfig selects and configures the similarity index.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant collection.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type RetrievalConfig struct {
	TopK         int `yaml:"top_k"`
	ExcerptChars int `yaml:"excerpt_chars"`
}

type AgentConfig struct {
	// Entity is the company name sub-queries are phrased about.
	Entity string `yaml:"entity"`
}

type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir  string `yaml:"data_dir"`
	IndexDir string `yaml:"index_dir"`
	// Company limits indexing to one filing prefix; empty indexes every filing.
	Company     string            `yaml:"company"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Agent       AgentConfig       `yaml:"agent"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Log         LogConfig         `yaml:"log"`
	Server      ServerConfig      `yaml:"server"`
}

// Load reads a config from path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	// derived from data_dir unless set
	cfg.IndexDir = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// LoadDefault tries ./finqa.yaml first, then ~/.config/finqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/finqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "finqa.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "finqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		DataDir:  "data",
		IndexDir: filepath.Join("data", "index"),
		Chunker: ChunkerConfig{
			ChunkSizeChars:  3000,
			OverlapChars:    300,
			MinSectionChars: 50,
		},
		Embedder: EmbedderConfig{
			Type:        "tfidf",
			MaxFeatures: 4096,
			OpenAI:      defaultOpenAI(),
		},
		VectorStore: VectorStoreConfig{
			Type: "flat",
			Qdrant: &QdrantConfig{
				URL:         "http://localhost:6333",
				Collection:  "finqa_chunks",
				TimeoutSecs: 15,
			},
		},
		Retrieval:  RetrievalConfig{TopK: 6, ExcerptChars: 500},
		Agent:      AgentConfig{Entity: "Google"},
		Summarizer: SummarizerConfig{MaxSentences: 5},
		Log:        LogConfig{Level: "info", Format: "console"},
		Server:     ServerConfig{Addr: ":8088"},
	}
}

func defaultOpenAI() *OpenAIEmbedderConfig {
	return &OpenAIEmbedderConfig{
		BaseURL:     "https://api.openai.com/v1",
		APIKeyEnv:   "OPENAI_API_KEY",
		Model:       "text-embedding-3-small",
		TimeoutSecs: 30,
		BatchSize:   64,
		MaxRetries:  2,
	}
}

// applyConfigDefaults fills fields a partial YAML file zeroed out.
func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.IndexDir == "" {
		cfg.IndexDir = filepath.Join(cfg.DataDir, "index")
	}
	if cfg.Chunker.ChunkSizeChars <= 0 {
		cfg.Chunker.ChunkSizeChars = def.Chunker.ChunkSizeChars
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Embedder.OpenAI == nil {
		cfg.Embedder.OpenAI = def.Embedder.OpenAI
	}
	o := cfg.Embedder.OpenAI
	if o.BaseURL == "" {
		o.BaseURL = def.Embedder.OpenAI.BaseURL
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = def.Embedder.OpenAI.APIKeyEnv
	}
	if o.Model == "" {
		o.Model = def.Embedder.OpenAI.Model
	}
	if o.TimeoutSecs == 0 {
		o.TimeoutSecs = def.Embedder.OpenAI.TimeoutSecs
	}
	if o.BatchSize == 0 {
		o.BatchSize = def.Embedder.OpenAI.BatchSize
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.VectorStore.Qdrant == nil {
		cfg.VectorStore.Qdrant = def.VectorStore.Qdrant
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.ExcerptChars <= 0 {
		cfg.Retrieval.ExcerptChars = def.Retrieval.ExcerptChars
	}
	if cfg.Agent.Entity == "" {
		cfg.Agent.Entity = def.Agent.Entity
	}
	if cfg.Summarizer.MaxSentences <= 0 {
		cfg.Summarizer.MaxSentences = def.Summarizer.MaxSentences
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("FINQA_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("FINQA_INDEX_DIR")); v != "" {
		cfg.IndexDir = v
	}
	if v := strings.TrimSpace(os.Getenv("FINQA_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("FINQA_ENTITY")); v != "" {
		cfg.Agent.Entity = v
	}
}
