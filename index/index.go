package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/storage"
	"github.com/poiesic/hazmatrag/vectorize"
)

// DefaultCacheSize bounds the number of cached query vectors.
const DefaultCacheSize = 256

// Match is a stored document and its similarity to a query.
type Match struct {
	Document   core.Document
	Similarity float64
}

type entry struct {
	doc    core.Document
	vector core.SparseVector
}

// Index is a flat inner-product index over sparse document vectors.
type Index struct {
	mu      sync.RWMutex
	repo    storage.DocumentRepository
	encoder vectorize.Encoder
	entries []entry

	cache     *lru.Cache[string, core.SparseVector]
	cacheSize int
	logger    *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// WithCacheSize sets how many query vectors are memoized.
func WithCacheSize(size int) Option {
	return func(idx *Index) error {
		if size < 1 {
			return fmt.Errorf("cache size must be positive, got %d", size)
		}
		idx.cacheSize = size
		return nil
	}
}

// Open creates an index backed by repo and restores any persisted state.
func Open(ctx context.Context, repo storage.DocumentRepository, encoder vectorize.Encoder, opts ...Option) (*Index, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if encoder == nil {
		return nil, ErrEncoderRequired
	}

	idx := &Index{
		repo:      repo,
		encoder:   encoder,
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}
	idx.logger = idx.logger.With("component", "index")

	cache, err := lru.New[string, core.SparseVector](idx.cacheSize)
	if err != nil {
		return nil, err
	}
	idx.cache = cache

	if err := idx.load(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) load(ctx context.Context) error {
	state, err := idx.repo.LoadVectorizerState(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		idx.logger.Debug("no persisted vectorizer state")
		return nil
	case err != nil:
		return fmt.Errorf("failed to load vectorizer state: %w", err)
	}
	if err := idx.encoder.Load(state); err != nil {
		return fmt.Errorf("failed to restore vectorizer: %w", err)
	}

	err = idx.repo.ForEachDocument(ctx, func(doc *core.IndexedDocument) error {
		idx.entries = append(idx.entries, entry{doc: doc.Document, vector: doc.Vector})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	idx.logger.Info("index loaded", "documents", len(idx.entries), "vocabulary", idx.encoder.VocabularySize())
	return nil
}

// AddDocuments indexes docs and returns how many were added.
// Invalid documents are logged and skipped. Documents without an ID are
// assigned a random one.
func (idx *Index) AddDocuments(ctx context.Context, docs []core.Document) (int, error) {
	batch := make([]core.Document, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		if err := core.ValidateDocument(&doc); err != nil {
			idx.logger.Warn("skipping invalid document", "id", doc.Metadata.ID, "err", err)
			continue
		}
		if doc.Metadata.ID == "" {
			doc.Metadata.ID = uuid.NewString()
		}
		doc.Metadata.SearchType = ""
		batch = append(batch, doc)
	}
	if len(batch) == 0 {
		return 0, ErrEmptyBatch
	}

	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Content
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	fitting := !idx.encoder.IsFitted()
	var (
		vectors []core.SparseVector
		err     error
	)
	if fitting {
		idx.logger.Info("fitting vectorizer", "documents", len(texts))
		vectors, err = idx.encoder.Fit(ctx, texts)
	} else {
		vectors, err = idx.encoder.Encode(ctx, texts)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to vectorize documents: %w", err)
	}

	// A failed first batch must leave the index unfitted.
	rollback := func() {
		if !fitting {
			return
		}
		idx.encoder.Reset()
		if err := idx.repo.Reset(ctx); err != nil {
			idx.logger.Error("failed to roll back document store", "err", err)
		}
	}

	if len(vectors) != len(batch) {
		rollback()
		return 0, fmt.Errorf("vector count mismatch. expected %d, received %d", len(batch), len(vectors))
	}

	if fitting {
		state, err := idx.encoder.State()
		if err == nil {
			err = idx.repo.SaveVectorizerState(ctx, state)
		}
		if err != nil {
			rollback()
			return 0, fmt.Errorf("failed to persist vectorizer state: %w", err)
		}
		idx.cache.Purge()
	}

	records := make([]*core.IndexedDocument, len(batch))
	for i := range batch {
		records[i] = &core.IndexedDocument{Document: batch[i], Vector: vectors[i]}
	}
	if _, err := idx.repo.AppendDocuments(ctx, records...); err != nil {
		rollback()
		return 0, fmt.Errorf("failed to store documents: %w", err)
	}

	for _, rec := range records {
		idx.entries = append(idx.entries, entry{doc: rec.Document, vector: rec.Vector})
	}
	idx.logger.Debug("documents indexed", "added", len(records), "total", len(idx.entries))
	return len(records), nil
}

// Search returns up to topK documents ordered by descending similarity.
// Documents with equal similarity keep their insertion order.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.encoder.IsFitted() {
		return nil, ErrNotFitted
	}
	if topK <= 0 || len(idx.entries) == 0 {
		return []Match{}, nil
	}

	queryVec, err := idx.queryVector(ctx, query)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(idx.entries))
	for i := range idx.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		matches = append(matches, Match{
			Document:   idx.entries[i].doc,
			Similarity: float64(queryVec.Dot(idx.entries[i].vector)),
		})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return 0
		}
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// queryVector encodes query, consulting the cache first. Caller holds a lock.
func (idx *Index) queryVector(ctx context.Context, query string) (core.SparseVector, error) {
	key := strings.TrimSpace(query)
	if vec, ok := idx.cache.Get(key); ok {
		return vec, nil
	}
	vec, err := idx.encoder.EncodeText(ctx, query)
	if err != nil {
		return core.SparseVector{}, fmt.Errorf("failed to encode query: %w", err)
	}
	idx.cache.Add(key, vec)
	return vec, nil
}

// Stats summarizes the indexed documents.
func (idx *Index) Stats() core.IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	stats := core.IndexStats{
		TotalDocuments: len(idx.entries),
		Fitted:         idx.encoder.IsFitted(),
		VocabularySize: idx.encoder.VocabularySize(),
		DocTypes:       make(map[core.DocType]int),
		Sources:        make(map[core.Source]int),
	}
	for _, e := range idx.entries {
		stats.DocTypes[e.doc.Metadata.DocType]++
		stats.Sources[e.doc.Metadata.Source]++
	}
	return stats
}

// IsFitted reports whether the encoder has a vocabulary.
func (idx *Index) IsFitted() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.encoder.IsFitted()
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Documents returns a copy of every indexed document in insertion order.
func (idx *Index) Documents() []core.Document {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docs := make([]core.Document, len(idx.entries))
	for i, e := range idx.entries {
		docs[i] = e.doc
	}
	return docs
}

// Reset removes every document and the fitted encoder state.
// The next AddDocuments call fits a fresh vocabulary.
func (idx *Index) Reset(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset document store: %w", err)
	}
	idx.encoder.Reset()
	idx.entries = nil
	idx.cache.Purge()
	idx.logger.Info("index reset")
	return nil
}
