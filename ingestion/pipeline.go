package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/normalize"
	"github.com/poiesic/hazmatrag/storage"
)

// DefaultBatchSize is the number of records or sections handled per work item.
const DefaultBatchSize = 100

// DocumentIndex is the part of index.Index the pipeline writes to.
type DocumentIndex interface {
	AddDocuments(ctx context.Context, docs []core.Document) (int, error)
}

// Pipeline imports the catalog and regulation corpus.
// Document building is spread over a worker pool.
type Pipeline struct {
	chemicals    storage.ChemicalRepository
	index        DocumentIndex
	pool         *ants.Pool
	chunker      *normalize.Chunker
	batchSize    int
	chemicalProc *chemicalProcessor
	sectionProc  *sectionProcessor
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many records or sections form one work item and
// how many chunks are added to the index per call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
		}
		p.batchSize = size
		return nil
	}
}

// WithChunking sets the appendix chunk size and overlap in runes.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		chunker, err := normalize.NewChunker(size, overlap)
		if err != nil {
			return err
		}
		p.chunker = chunker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(chemicals storage.ChemicalRepository, idx DocumentIndex, opts ...Option) (*Pipeline, error) {
	if chemicals == nil {
		return nil, ErrChemicalRepositoryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := normalize.NewChunker(normalize.DefaultChunkSize, normalize.DefaultChunkOverlap)
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		chemicals: chemicals,
		index:     idx,
		pool:      pool,
		chunker:   chunker,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingestion")
	p.chemicalProc = newChemicalProcessor(p.logger)
	p.sectionProc = newSectionProcessor(p.chunker, p.logger)

	return p, nil
}

// ImportReport counts the outcome of a catalog import.
type ImportReport struct {
	Added   int
	Skipped int
}

// ImportChemicals validates records and adds the valid ones to the catalog
// in batches. Invalid records are logged and counted as skipped.
func (p *Pipeline) ImportChemicals(ctx context.Context, records []*core.ChemicalRecord) (ImportReport, error) {
	var report ImportReport

	valid := make([]*core.ChemicalRecord, 0, len(records))
	for i, rec := range records {
		if err := core.ValidateChemicalRecord(rec); err != nil {
			p.logger.Warn("skipping catalog record", "row", i, "err", err)
			report.Skipped++
			continue
		}
		valid = append(valid, rec)
	}

	for start := 0; start < len(valid); start += p.batchSize {
		end := min(start+p.batchSize, len(valid))
		added, err := p.chemicals.AddChemicals(ctx, valid[start:end]...)
		if err != nil {
			return report, fmt.Errorf("failed to add catalog records %d-%d: %w", start, end, err)
		}
		report.Added += len(added)
	}

	p.logger.Info("imported catalog", "added", report.Added, "skipped", report.Skipped)
	return report, nil
}

// IndexCatalog adds a document for every stored catalog record to the index.
// All documents go to the index in one call, so on an empty index the
// catalog fits the vectorizer.
func (p *Pipeline) IndexCatalog(ctx context.Context) (int, error) {
	records, err := p.chemicals.GetAll(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog: %w", err)
	}

	docs, err := fanOut(ctx, p.pool, p.chemicalProc, records, p.batchSize)
	if err != nil {
		return 0, err
	}

	added, err := p.index.AddDocuments(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to index catalog: %w", err)
	}

	p.logger.Info("indexed catalog", "records", len(records), "documents", added)
	return added, nil
}

// ImportAppendix splits markdown into regulation chunks and adds them to
// the index in batches. It returns the number of chunks added.
func (p *Pipeline) ImportAppendix(ctx context.Context, markdown string) (int, error) {
	sections := splitAppendix(markdown)

	docs, err := fanOut(ctx, p.pool, p.sectionProc, sections, p.batchSize)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		p.logger.Warn("appendix produced no chunks", "sections", len(sections))
		return 0, nil
	}

	total := 0
	for start := 0; start < len(docs); start += p.batchSize {
		end := min(start+p.batchSize, len(docs))
		added, err := p.index.AddDocuments(ctx, docs[start:end])
		if err != nil {
			return total, fmt.Errorf("failed to index appendix chunks %d-%d: %w", start, end, err)
		}
		total += added
	}

	p.logger.Info("imported appendix", "sections", len(sections), "chunks", total)
	return total, nil
}

// ImportAppendixFile reads a markdown file and imports it with ImportAppendix.
func (p *Pipeline) ImportAppendixFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read appendix: %w", err)
	}
	return p.ImportAppendix(ctx, string(data))
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
