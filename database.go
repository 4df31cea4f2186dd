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


package hazmatrag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/hazmatrag/config"
	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/index"
	"github.com/poiesic/hazmatrag/ingestion"
	"github.com/poiesic/hazmatrag/reindex"
	"github.com/poiesic/hazmatrag/search"
	"github.com/poiesic/hazmatrag/storage"
	"github.com/poiesic/hazmatrag/storage/badger"
	"github.com/poiesic/hazmatrag/storage/sqlite"
	"github.com/poiesic/hazmatrag/vectorize"
	"github.com/poiesic/hazmatrag/vectorize/tfidf"
)

type Database struct {
	config    *config.Config
	backend   *badger.Backend
	chemicals storage.ChemicalRepository
	documents storage.DocumentRepository
	index     *index.Index
	retriever *search.Retriever
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   *config.Config
	logger   *slog.Logger
	inMemory bool
}

// WithConfig sets the settings the database runs with.
// Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// WithInMemory keeps the badger store in memory. The sqlite catalog, when
// selected, still lives on disk.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the database in dataDir, restoring a previously built
// index. A non-empty dataDir overrides the configured data directory.
func NewDatabase(dataDir string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	cfg := *options.config
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackendWithLogger(cfg.DataDir, options.inMemory, options.logger)
	if err != nil {
		return nil, err
	}

	db := &Database{
		config:  &cfg,
		backend: backend,
		logger:  options.logger.With("component", "database"),
	}

	if err := db.open(options.logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *Database) open(logger *slog.Logger) error {
	chemicals, err := openCatalog(db.config, db.backend, logger)
	if err != nil {
		return err
	}
	db.chemicals = chemicals

	documents, err := badger.NewDocumentRepository(db.backend)
	if err != nil {
		return err
	}
	db.documents = documents

	encoder, err := tfidf.New(tfidf.WithConfig(vectorize.NewConfig(
		vectorize.WithMaxFeatures(db.config.MaxFeatures),
	)))
	if err != nil {
		return err
	}

	db.index, err = index.Open(context.Background(), db.documents, encoder,
		index.WithLogger(logger),
		index.WithCacheSize(db.config.QueryCacheSize),
	)
	if err != nil {
		return err
	}

	db.retriever, err = search.NewRetriever(db.chemicals, db.index,
		search.WithLogger(logger),
		search.WithRetrievalTopK(db.config.RetrievalTopK),
		search.WithSimilarityThreshold(db.config.SimilarityThreshold),
		search.WithDefaultTopK(db.config.DefaultTopK),
		search.WithCatalogBackend(db.config.CatalogBackend),
	)
	return err
}

// openCatalog opens the catalog store selected by cfg.CatalogBackend.
func openCatalog(cfg *config.Config, backend *badger.Backend, logger *slog.Logger) (storage.ChemicalRepository, error) {
	switch cfg.CatalogBackend {
	case config.BackendSQLite:
		repo, err := sqlite.NewChemicalRepository(cfg.CatalogDir(), logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendBadger:
		repo, err := badger.NewChemicalRepository(backend)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownBackend, cfg.CatalogBackend)
	}
}

func (db *Database) Close() error {
	// Close repositories
	if db.documents != nil {
		if err := db.documents.Close(); err != nil {
			db.logger.Error("error closing document repository", "err", err)
			return err
		}
	}
	if db.chemicals != nil {
		if err := db.chemicals.Close(); err != nil {
			db.logger.Error("error closing chemical repository", "err", err)
			return err
		}
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Config returns the settings the database was opened with.
func (db *Database) Config() config.Config {
	return *db.config
}

func (db *Database) ChemicalRepository() storage.ChemicalRepository {
	return db.chemicals
}

func (db *Database) Index() *index.Index {
	return db.index
}

func (db *Database) Retriever() *search.Retriever {
	return db.retriever
}

// Query runs a retrieval. It never fails; see search.Retriever.Retrieve.
func (db *Database) Query(ctx context.Context, query string, strategy core.Strategy, topK int) core.RetrievalResult {
	return db.retriever.Retrieve(ctx, query, strategy, topK)
}

// QueryWithMonitor is Query with step callbacks.
func (db *Database) QueryWithMonitor(ctx context.Context, query string, strategy core.Strategy, topK int, monitor search.Monitor) core.RetrievalResult {
	return db.retriever.RetrieveWithMonitor(ctx, query, strategy, topK, monitor)
}

func (db *Database) Stats(ctx context.Context) (core.RetrievalStats, error) {
	return db.retriever.Stats(ctx)
}

// NewIngestionPipeline creates a pipeline configured from the database
// settings. opts are applied after the configured ones.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{
		ingestion.WithLogger(db.logger),
		ingestion.WithPoolSize(db.config.MaxWorkers),
		ingestion.WithBatchSize(db.config.BatchSize),
		ingestion.WithChunking(db.config.MaxChunkSize, db.config.ChunkOverlap),
	}
	return ingestion.NewPipeline(db.chemicals, db.index, append(base, opts...)...)
}

// RebuildOption adjusts the rebuild settings derived from the database config.
type RebuildOption func(*reindex.Config)

// WithReportInterval sets how often rebuild progress is reported, in documents.
func WithReportInterval(n int) RebuildOption {
	return func(c *reindex.Config) {
		c.ReportInterval = n
	}
}

// WithRetries sets the attempts and base backoff for each index write.
func WithRetries(maxAttempts int, delay time.Duration) RebuildOption {
	return func(c *reindex.Config) {
		c.MaxRetries = maxAttempts
		c.RetryDelay = delay
	}
}

// NewRebuilder creates an index rebuilder configured from the database settings.
// progress may be nil.
func (db *Database) NewRebuilder(progress io.Writer, opts ...RebuildOption) (*reindex.Rebuilder, error) {
	cfg := reindex.DefaultConfig()
	cfg.BatchSize = db.config.BatchSize
	cfg.ChunkSize = db.config.MaxChunkSize
	cfg.ChunkOverlap = db.config.ChunkOverlap
	for _, opt := range opts {
		opt(cfg)
	}
	return reindex.NewRebuilder(db.chemicals, db.index, cfg, progress, db.logger)
}

// ResetIndex wipes the semantic index. The catalog is kept.
func (db *Database) ResetIndex(ctx context.Context) error {
	return db.index.Reset(ctx)
}

// Rebuild resets the index and re-indexes the catalog and, when appendixPath
// is not empty, the appendix markdown.
func (db *Database) Rebuild(ctx context.Context, appendixPath string, progress io.Writer) (*reindex.Summary, error) {
	var appendix string
	if appendixPath != "" {
		data, err := os.ReadFile(appendixPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read appendix: %w", err)
		}
		appendix = string(data)
	}

	rebuilder, err := db.NewRebuilder(progress)
	if err != nil {
		return nil, err
	}
	return rebuilder.Run(ctx, appendix)
}
