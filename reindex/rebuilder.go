package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/normalize"
	"github.com/poiesic/hazmatrag/storage"
)

// Index is the part of index.Index a rebuild drives.
type Index interface {
	AddDocuments(ctx context.Context, docs []core.Document) (int, error)
	Reset(ctx context.Context) error
}

// Config holds configuration for a rebuild.
type Config struct {
	// BatchSize is the number of records or chunks handled per batch.
	BatchSize int

	// ReportInterval is how often to report progress, in documents.
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each index write.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// ChunkSize and ChunkOverlap control appendix chunking, in runes.
	ChunkSize    int
	ChunkOverlap int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
		ChunkSize:      normalize.DefaultChunkSize,
		ChunkOverlap:   normalize.DefaultChunkOverlap,
	}
}

// Summary describes a completed rebuild.
type Summary struct {
	Chemicals   int
	Regulations int
	Elapsed     time.Duration
}

// Rebuilder wipes and repopulates the semantic index.
type Rebuilder struct {
	chemicals storage.ChemicalRepository
	index     Index
	config    *Config
	chunker   *normalize.Chunker
	iterator  *CatalogIterator
	progress  io.Writer
	logger    *slog.Logger
}

// NewRebuilder creates a new rebuilder.
// progress: where to write progress output (typically os.Stderr); nil discards it.
func NewRebuilder(chemicals storage.ChemicalRepository, idx Index, config *Config, progress io.Writer, logger *slog.Logger) (*Rebuilder, error) {
	if chemicals == nil {
		return nil, ErrCatalogRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	cfg := *config
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}

	chunker, err := normalize.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	return &Rebuilder{
		chemicals: chemicals,
		index:     idx,
		config:    &cfg,
		chunker:   chunker,
		iterator:  NewCatalogIterator(chemicals, cfg.BatchSize),
		progress:  progress,
		logger:    logger.With("component", "reindex"),
	}, nil
}

// Run resets the index and rebuilds it from the catalog, then from the
// appendix markdown when it is not empty.
//
// Catalog documents are added in one call so that they fit the vectorizer.
// When the catalog is empty the first appendix batch fits it instead.
func (r *Rebuilder) Run(ctx context.Context, appendix string) (*Summary, error) {
	start := time.Now()

	if err := r.retry(ctx, func(ctx context.Context) error { return r.index.Reset(ctx) }); err != nil {
		return nil, fmt.Errorf("failed to reset index: %w", err)
	}
	r.logger.Info("index reset")

	chemicalDocs, err := r.catalogDocuments(ctx)
	if err != nil {
		return nil, err
	}
	regulationDocs, err := r.chunker.RegulationDocuments(appendix)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk appendix: %w", err)
	}

	total := len(chemicalDocs) + len(regulationDocs)
	if total == 0 {
		fmt.Fprintf(r.progress, "Nothing to index (0 documents)\n")
		return &Summary{Elapsed: time.Since(start)}, nil
	}

	fmt.Fprintf(r.progress, "Rebuilding index from %d catalog documents and %d regulation chunks (batch size: %d)\n",
		len(chemicalDocs), len(regulationDocs), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, "documents", total, r.config.ReportInterval)
	tracker.Start()

	summary := &Summary{}
	if len(chemicalDocs) > 0 {
		added, err := r.add(ctx, chemicalDocs)
		if err != nil {
			return nil, fmt.Errorf("failed to index catalog: %w", err)
		}
		summary.Chemicals = added
		tracker.Add(len(chemicalDocs))
	}

	for lo := 0; lo < len(regulationDocs); lo += r.config.BatchSize {
		hi := min(lo+r.config.BatchSize, len(regulationDocs))
		added, err := r.add(ctx, regulationDocs[lo:hi])
		if err != nil {
			return nil, fmt.Errorf("failed to index regulation chunks %d-%d: %w", lo, hi, err)
		}
		summary.Regulations += added
		tracker.Add(hi - lo)
	}

	tracker.Finish()
	summary.Elapsed = time.Since(start)

	fmt.Fprintf(r.progress, "Rebuild complete. Indexed %d documents in %v\n",
		summary.Chemicals+summary.Regulations, summary.Elapsed.Round(time.Millisecond))
	r.logger.Info("index rebuilt", "chemicals", summary.Chemicals, "regulations", summary.Regulations, "elapsed", summary.Elapsed)
	return summary, nil
}

// catalogDocuments builds a document for every valid catalog record.
func (r *Rebuilder) catalogDocuments(ctx context.Context) ([]core.Document, error) {
	var docs []core.Document
	err := r.iterator.ForEach(ctx, func(records []*core.ChemicalRecord) error {
		for _, rec := range records {
			doc, err := normalize.ChemicalIndexDocument(rec)
			if err != nil {
				r.logger.Warn("skipping catalog record", "id", rec.Id, "err", err)
				continue
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return docs, nil
}

func (r *Rebuilder) add(ctx context.Context, docs []core.Document) (int, error) {
	var added int
	err := r.retry(ctx, func(ctx context.Context) error {
		var err error
		added, err = r.index.AddDocuments(ctx, docs)
		return err
	})
	return added, err
}

func (r *Rebuilder) retry(ctx context.Context, operation func(ctx context.Context) error) error {
	return RetryWithBackoff(ctx, r.logger, r.config.MaxRetries, r.config.RetryDelay, operation)
}
