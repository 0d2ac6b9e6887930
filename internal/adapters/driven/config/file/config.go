// Package file loads claimsight configuration from a TOML file with
// environment overrides. A .env file next to the working directory is
// honoured so API keys stay out of the config file.
package file

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/claimsight/claimsight/internal/core/domain"
)

// DefaultPath is the config file consulted when none is given.
const DefaultPath = "claimsight.toml"

// Backend names for the vector index.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Provider names for embeddings and generation.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the full claimsight configuration tree.
type Config struct {
	Verbose bool `toml:"verbose"`

	Server    ServerConfig    `toml:"server"`
	Documents DocumentsConfig `toml:"documents"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Index     IndexConfig     `toml:"index"`
	Embedding ProviderConfig  `toml:"embedding"`
	LLM       ProviderConfig  `toml:"llm"`
	Query     QueryConfig     `toml:"query"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DocumentsConfig configures the documents folder and its watcher.
type DocumentsConfig struct {
	Folder string `toml:"folder"`

	// Watch enables indexing documents as they appear in the folder.
	Watch bool `toml:"watch"`

	// DebounceSeconds is how long the watcher waits after the last
	// filesystem event before triggering a run.
	DebounceSeconds int `toml:"debounce_seconds"`
}

// ChunkingConfig configures the sentence chunker.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	Backend string `toml:"backend"`

	// VectorsPath and DocumentsPath locate the memory backend's
	// snapshot files.
	VectorsPath   string `toml:"vectors_path"`
	DocumentsPath string `toml:"documents_path"`

	// SQLitePath locates the sqlite backend's database file.
	SQLitePath string `toml:"sqlite_path"`
}

// ProviderConfig configures one model provider. The API key is never
// read from the file; it comes from the environment.
type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`

	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`

	APIKey string `toml:"-"`
}

// QueryConfig configures the query pipeline.
type QueryConfig struct {
	TopK int `toml:"top_k"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Documents: DocumentsConfig{
			Folder:          "pdfs",
			DebounceSeconds: 2,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Index: IndexConfig{
			Backend:       BackendMemory,
			VectorsPath:   "embeddings.gob",
			DocumentsPath: "documents.gob",
			SQLitePath:    "index.db",
		},
		Embedding: ProviderConfig{
			Provider: ProviderOpenAI,
		},
		LLM: ProviderConfig{
			Provider: ProviderOpenAI,
		},
		Query: QueryConfig{
			TopK: 5,
		},
	}
}

// Load reads configuration from path, falling back to DefaultPath and
// then to defaults when no file exists. Environment variables override
// file values, and a .env file is loaded first if present.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit exports still apply.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %v: %w", path, err, domain.ErrConfig)
		}
	case os.IsNotExist(err) && !explicit:
		// Run on defaults.
	default:
		return nil, fmt.Errorf("read %s: %v: %w", path, err, domain.ErrConfig)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers environment overrides on top of the file values.
func (c *Config) applyEnv() {
	apiKey := os.Getenv("CLAIMSIGHT_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	c.Embedding.APIKey = apiKey
	c.LLM.APIKey = apiKey

	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		if c.Embedding.Provider == ProviderOllama && c.Embedding.BaseURL == "" {
			c.Embedding.BaseURL = host
		}
		if c.LLM.Provider == ProviderOllama && c.LLM.BaseURL == "" {
			c.LLM.BaseURL = host
		}
	}

	if folder := os.Getenv("CLAIMSIGHT_FOLDER"); folder != "" {
		c.Documents.Folder = folder
	}
	if port := os.Getenv("CLAIMSIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate checks the configuration is usable before any adapter is
// built. OpenAI providers refuse to start without an API key.
func (c *Config) Validate() error {
	switch c.Index.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("index backend %q: %w", c.Index.Backend, domain.ErrUnsupportedBackend)
	}

	for name, provider := range map[string]ProviderConfig{
		"embedding": c.Embedding,
		"llm":       c.LLM,
	} {
		switch provider.Provider {
		case ProviderOpenAI:
			if provider.APIKey == "" {
				return fmt.Errorf("%s provider requires an API key, set CLAIMSIGHT_API_KEY or OPENAI_API_KEY: %w",
					name, domain.ErrConfig)
			}
		case ProviderOllama:
		default:
			return fmt.Errorf("%s provider %q: %w", name, provider.Provider, domain.ErrConfig)
		}
	}

	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunk size must be positive: %w", domain.ErrConfig)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunk overlap must be smaller than chunk size: %w", domain.ErrConfig)
	}
	if c.Query.TopK <= 0 {
		return fmt.Errorf("top_k must be positive: %w", domain.ErrConfig)
	}
	return nil
}
