// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Answer      AnswerConfig      `yaml:"answer"`
	VectorIndex VectorIndexConfig `yaml:"vector_index"`
	Documents   DocumentsConfig   `yaml:"documents"`
	Metadata    MetadataConfig    `yaml:"metadata"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChunkerConfig controls document segmentation. Sizes are in units of the
// selected encoding.
type ChunkerConfig struct {
	ChunkSize     int    `yaml:"chunk_size"`      // default 1000
	ChunkOverlap  int    `yaml:"chunk_overlap"`   // default 200
	MinChunkUnits int    `yaml:"min_chunk_units"` // default 10
	Encoding      string `yaml:"encoding"`        // "rune" (default) or a tiktoken name, e.g. "cl100k_base"
}

// EmbeddingConfig contains embedding service configuration
type EmbeddingConfig struct {
	Endpoint   string `yaml:"endpoint"`   // e.g. "https://api.openai.com/v1"
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`      // e.g. "text-embedding-3-small"
	Dimensions int    `yaml:"dimensions"` // default 1536
	BatchSize  int    `yaml:"batch_size"` // default 10
}

// AnswerConfig contains answer-generation model configuration
type AnswerConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`      // e.g. "gpt-4o-mini"
	MaxTokens int    `yaml:"max_tokens"` // default 2048
	TopK      int    `yaml:"top_k"`      // chunks retrieved per question, default 5
}

// VectorIndexConfig contains vector index backend configuration
type VectorIndexConfig struct {
	Type          string `yaml:"type"`           // "memory" (default) or "milvus"
	MilvusAddress string `yaml:"milvus_address"` // e.g. "localhost:19530"
}

// DocumentsConfig contains document blob storage configuration
type DocumentsConfig struct {
	Type     string `yaml:"type"`     // "memory" (default), "filesystem" or "s3"
	BaseDir  string `yaml:"base_dir"` // filesystem backend
	Bucket   string `yaml:"bucket"`   // s3 backend
	Region   string `yaml:"region"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"` // custom endpoint for MinIO compatibility
}

// MetadataConfig contains document/chunk metadata store configuration
type MetadataConfig struct {
	Type string `yaml:"type"` // "memory" (default), "postgres" or "sqlite"
	DSN  string `yaml:"dsn"`  // postgres connection string
	Path string `yaml:"path"` // sqlite database file
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 60 * time.Second,
		},
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// applyEnvOverrides lets environment variables override file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EMBEDDING_ENDPOINT"); v != "" {
		cfg.Embedding.Endpoint = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("ANSWER_ENDPOINT"); v != "" {
		cfg.Answer.Endpoint = v
	}
	if v := os.Getenv("ANSWER_API_KEY"); v != "" {
		cfg.Answer.APIKey = v
	}
	if v := os.Getenv("ANSWER_MODEL"); v != "" {
		cfg.Answer.Model = v
	}
	if v := os.Getenv("MILVUS_ADDRESS"); v != "" {
		cfg.VectorIndex.MilvusAddress = v
		cfg.VectorIndex.Type = "milvus"
	}
	if v := os.Getenv("METADATA_DSN"); v != "" {
		cfg.Metadata.DSN = v
		cfg.Metadata.Type = "postgres"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 200
	}
	if cfg.Chunker.MinChunkUnits == 0 {
		cfg.Chunker.MinChunkUnits = 10
	}
	if cfg.Chunker.Encoding == "" {
		cfg.Chunker.Encoding = "rune"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 10
	}
	if cfg.Answer.Model == "" {
		cfg.Answer.Model = "gpt-4o-mini"
	}
	if cfg.Answer.MaxTokens == 0 {
		cfg.Answer.MaxTokens = 2048
	}
	if cfg.Answer.TopK == 0 {
		cfg.Answer.TopK = 5
	}
	if cfg.VectorIndex.Type == "" {
		cfg.VectorIndex.Type = "memory"
	}
	if cfg.Documents.Type == "" {
		cfg.Documents.Type = "memory"
	}
	if cfg.Metadata.Type == "" {
		cfg.Metadata.Type = "memory"
	}
}
