// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"fmt"
	"strings"
)

// Catalog backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the settings for a hazmatrag database and its retriever.
type Config struct {
	// DataDir is the badger directory holding the index and, for the
	// badger backend, the catalog.
	DataDir string `yaml:"data_dir"`

	// CatalogBackend selects the catalog store: "badger" or "sqlite".
	CatalogBackend string `yaml:"catalog_backend"`

	// SQLiteDir holds catalog.db for the sqlite backend.
	// Default: DataDir
	SQLiteDir string `yaml:"sqlite_dir"`

	// RetrievalTopK caps semantic searches that have no explicit cap.
	RetrievalTopK int `yaml:"retrieval_top_k"`

	// SimilarityThreshold drops semantic hits scoring below it. Range [0,1].
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// DefaultTopK is the result cap for queries that pass none.
	DefaultTopK int `yaml:"default_top_k"`

	// MaxChunkSize and ChunkOverlap control appendix chunking, in runes.
	MaxChunkSize int `yaml:"max_chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// BatchSize is the number of records or chunks handled per batch.
	BatchSize int `yaml:"batch_size"`

	// MaxWorkers is the ingestion worker pool size.
	MaxWorkers int `yaml:"max_workers"`

	// MaxFeatures caps the TF-IDF vocabulary.
	MaxFeatures int `yaml:"max_features"`

	// QueryCacheSize is the number of encoded queries kept in memory.
	QueryCacheSize int `yaml:"query_cache_size"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDataDir sets the data directory.
func WithDataDir(dir string) ConfigOption {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithCatalogBackend selects the catalog backend.
func WithCatalogBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.CatalogBackend = backend
	}
}

// WithSQLiteDir sets the directory of the sqlite catalog.
func WithSQLiteDir(dir string) ConfigOption {
	return func(c *Config) {
		c.SQLiteDir = dir
	}
}

// WithRetrievalTopK sets the semantic search cap.
func WithRetrievalTopK(n int) ConfigOption {
	return func(c *Config) {
		c.RetrievalTopK = n
	}
}

// WithSimilarityThreshold sets the semantic score floor.
func WithSimilarityThreshold(threshold float64) ConfigOption {
	return func(c *Config) {
		c.SimilarityThreshold = threshold
	}
}

// WithDefaultTopK sets the default result cap.
func WithDefaultTopK(n int) ConfigOption {
	return func(c *Config) {
		c.DefaultTopK = n
	}
}

// WithChunking sets the appendix chunk size and overlap.
func WithChunking(size, overlap int) ConfigOption {
	return func(c *Config) {
		c.MaxChunkSize = size
		c.ChunkOverlap = overlap
	}
}

// WithBatchSize sets the ingestion and rebuild batch size.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// WithMaxWorkers sets the ingestion worker pool size.
func WithMaxWorkers(n int) ConfigOption {
	return func(c *Config) {
		c.MaxWorkers = n
	}
}

// WithMaxFeatures sets the TF-IDF vocabulary cap.
func WithMaxFeatures(n int) ConfigOption {
	return func(c *Config) {
		c.MaxFeatures = n
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// DefaultConfig returns a Config with the defaults of the regulation build.
func DefaultConfig() *Config {
	return &Config{
		DataDir:             "./data/hazmatrag",
		CatalogBackend:      BackendBadger,
		RetrievalTopK:       50,
		SimilarityThreshold: 0.1,
		DefaultTopK:         5,
		MaxChunkSize:        500,
		ChunkOverlap:        50,
		BatchSize:           100,
		MaxWorkers:          4,
		MaxFeatures:         5000,
		QueryCacheSize:      256,
		LogLevel:            "info",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDataDir("/var/lib/hazmatrag"),
//	    WithCatalogBackend(BackendSQLite),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form.
func (c *Config) Normalize() {
	c.CatalogBackend = strings.ToLower(strings.TrimSpace(c.CatalogBackend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	switch c.CatalogBackend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("%w: catalog_backend must be %q or %q, got %q", ErrInvalidConfig, BackendBadger, BackendSQLite, c.CatalogBackend)
	}
	if c.RetrievalTopK < 1 {
		return fmt.Errorf("%w: retrieval_top_k must be positive", ErrInvalidConfig)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be between 0 and 1", ErrInvalidConfig)
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("%w: default_top_k must be positive", ErrInvalidConfig)
	}
	if c.MaxChunkSize < 1 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.MaxChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, max_chunk_size)", ErrInvalidConfig)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("%w: max_workers must be positive", ErrInvalidConfig)
	}
	if c.MaxFeatures < 1 {
		return fmt.Errorf("%w: max_features must be positive", ErrInvalidConfig)
	}
	if c.QueryCacheSize < 1 {
		return fmt.Errorf("%w: query_cache_size must be positive", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CatalogDir returns the directory of the sqlite catalog.
func (c *Config) CatalogDir() string {
	if c.SQLiteDir != "" {
		return c.SQLiteDir
	}
	return c.DataDir
}
