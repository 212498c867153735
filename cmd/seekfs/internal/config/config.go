// Package config loads the seekfs configuration file.
//
// The file is YAML; every field has a working default, so an absent file
// yields a usable local-only configuration (in-process hash embeddings,
// Badger under ./seekfs-data, current directory as browsing root).
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Defaults.
const (
	DefaultListen    = ":8080"
	DefaultDataDir   = "./seekfs-data"
	DefaultChunkSize = 1000
	DefaultSnippet   = 300
)

// Embedder backends.
const (
	EmbedderHash   = "hash"
	EmbedderOpenAI = "openai"
)

// Snapshot backends.
const (
	SnapshotLocal = "local"
	SnapshotS3    = "s3"
)

// Config is the top-level configuration schema.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Root is the directory served by the local provider and the
	// sandbox for directory indexing.
	Root string `yaml:"root"`

	// DataDir holds the record database and, for the local snapshot
	// backend, the vector index snapshot.
	DataDir string `yaml:"data_dir"`

	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int `yaml:"chunk_size"`

	// SnippetLimit truncates search snippets. 0 disables truncation.
	SnippetLimit int `yaml:"snippet_limit"`

	Embedder Embedder `yaml:"embedder"`
	Snapshot Snapshot `yaml:"snapshot"`
}

// Embedder selects and configures the embedding backend.
type Embedder struct {
	// Kind is "hash" or "openai".
	Kind string `yaml:"kind"`

	// Model is the OpenAI embedding model name.
	Model string `yaml:"model"`

	// Dimension overrides the embedding width. 0 keeps the backend's
	// default.
	Dimension int `yaml:"dimension"`

	// APIKey authenticates against OpenAI. The OPENAI_API_KEY
	// environment variable takes precedence so keys can stay out of
	// config files.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the OpenAI endpoint, for proxies and
	// compatible servers.
	BaseURL string `yaml:"base_url"`
}

// Snapshot selects where the vector index snapshot is persisted.
type Snapshot struct {
	// Backend is "local" or "s3".
	Backend string `yaml:"backend"`

	// S3 settings, used when Backend is "s3".
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Load reads path and applies defaults and environment overrides.
// An empty path or a missing file yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.SnippetLimit == 0 {
		c.SnippetLimit = DefaultSnippet
	}
	if c.Embedder.Kind == "" {
		c.Embedder.Kind = EmbedderHash
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Embedder.APIKey = key
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = SnapshotLocal
	}
}

func (c *Config) validate() error {
	switch c.Embedder.Kind {
	case EmbedderHash:
	case EmbedderOpenAI:
		if c.Embedder.APIKey == "" {
			return fmt.Errorf("config: embedder kind %q needs api_key or OPENAI_API_KEY", EmbedderOpenAI)
		}
	default:
		return fmt.Errorf("config: unknown embedder kind %q", c.Embedder.Kind)
	}
	switch c.Snapshot.Backend {
	case SnapshotLocal:
	case SnapshotS3:
		if c.Snapshot.Bucket == "" {
			return fmt.Errorf("config: snapshot backend %q needs a bucket", SnapshotS3)
		}
	default:
		return fmt.Errorf("config: unknown snapshot backend %q", c.Snapshot.Backend)
	}
	return nil
}
