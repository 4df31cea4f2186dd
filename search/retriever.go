package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/index"
	"github.com/poiesic/hazmatrag/normalize"
	"github.com/poiesic/hazmatrag/storage"
)

const (
	// DefaultTopK is the result cap used when a caller passes no positive cap.
	DefaultTopK = 5

	// DefaultRetrievalTopK caps semantic searches that have no explicit cap.
	DefaultRetrievalTopK = 50

	// DefaultSimilarityThreshold drops weaker semantic hits.
	DefaultSimilarityThreshold = 0.1

	exactIDScore   = 1.0
	exactNameScore = 0.9
)

// SemanticIndex is the part of index.Index the retriever depends on.
type SemanticIndex interface {
	Search(ctx context.Context, query string, topK int) ([]index.Match, error)
	Stats() core.IndexStats
}

var _ SemanticIndex = (*index.Index)(nil)

// Retriever answers queries against the chemical catalog and the semantic index.
// It is safe for concurrent use.
type Retriever struct {
	chemicals storage.ChemicalRepository
	index     SemanticIndex
	settings  core.RetrievalSettings
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithSimilarityThreshold drops semantic hits scoring below threshold.
func WithSimilarityThreshold(threshold float64) Option {
	return func(r *Retriever) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("%w: similarity threshold %v outside [0,1]", ErrInvalidSettings, threshold)
		}
		r.settings.SimilarityThreshold = threshold
		return nil
	}
}

// WithRetrievalTopK sets the semantic search cap used when none is given.
func WithRetrievalTopK(n int) Option {
	return func(r *Retriever) error {
		if n < 1 {
			return fmt.Errorf("%w: retrieval top_k must be positive, got %d", ErrInvalidSettings, n)
		}
		r.settings.RetrievalTopK = n
		return nil
	}
}

// WithDefaultTopK sets the result cap for calls that pass none.
func WithDefaultTopK(n int) Option {
	return func(r *Retriever) error {
		if n < 1 {
			return fmt.Errorf("%w: default top_k must be positive, got %d", ErrInvalidSettings, n)
		}
		r.settings.DefaultTopK = n
		return nil
	}
}

// WithCatalogBackend records the catalog backend name reported by Stats.
func WithCatalogBackend(name string) Option {
	return func(r *Retriever) error {
		r.settings.CatalogBackend = name
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(chemicals storage.ChemicalRepository, idx SemanticIndex, opts ...Option) (*Retriever, error) {
	if chemicals == nil {
		return nil, ErrChemicalRepositoryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	r := &Retriever{
		chemicals: chemicals,
		index:     idx,
		settings: core.RetrievalSettings{
			RetrievalTopK:       DefaultRetrievalTopK,
			SimilarityThreshold: DefaultSimilarityThreshold,
			DefaultTopK:         DefaultTopK,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever")

	return r, nil
}

// Settings returns the tuning values the retriever runs with.
func (r *Retriever) Settings() core.RetrievalSettings {
	return r.settings
}

// Retrieve answers query with the given strategy, returning at most topK hits
// per search. A non-positive topK selects the default cap.
// Retrieve never fails; any internal error yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string, strategy core.Strategy, topK int) core.RetrievalResult {
	return r.RetrieveWithMonitor(ctx, query, strategy, topK, nil)
}

// RetrieveWithMonitor is Retrieve with callbacks at each retrieval step.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, strategy core.Strategy, topK int, monitor Monitor) (result core.RetrievalResult) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK <= 0 {
		topK = r.settings.DefaultTopK
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("retrieval panicked", "query", query, "panic", p, "stack", string(debug.Stack()))
			result = core.EmptyResult(query)
		}
	}()

	monitor.Start(query, strategy, topK)
	r.logger.Info("retrieving", "query", query, "strategy", strategy, "topK", topK)

	if err := core.ValidateStrategy(strategy); err != nil {
		r.logger.Error("rejecting query", "query", query, "err", err)
		result = core.EmptyResult(query)
		monitor.Finish(&result)
		return result
	}

	hits := r.dispatch(ctx, query, strategy, topK, monitor)
	result = r.assemble(ctx, query, hits, monitor)

	if result.IsEmpty() {
		if fallback := r.fallbackSearch(ctx, query, topK, monitor); !fallback.IsEmpty() {
			result = fallback
		}
	}

	monitor.Finish(&result)
	return result
}

func (r *Retriever) dispatch(ctx context.Context, query string, strategy core.Strategy, topK int, monitor Monitor) []core.SearchHit {
	switch strategy {
	case core.StrategyExact:
		return r.exactSearch(ctx, query, topK, monitor)
	case core.StrategySemantic:
		return r.semanticSearch(ctx, query, topK, monitor)
	case core.StrategyHybrid:
		return r.hybridSearch(ctx, query, topK, monitor)
	default:
		return r.autoSearch(ctx, query, topK, monitor)
	}
}

// autoSearch picks a strategy from the query's classification.
func (r *Retriever) autoSearch(ctx context.Context, query string, topK int, monitor Monitor) []core.SearchHit {
	queryType := Classify(query)
	monitor.Classified(queryType)
	r.logger.Debug("query classified", "query", query, "type", queryType)

	switch queryType {
	case core.QueryTypeExactID:
		return r.exactSearch(ctx, query, topK, monitor)
	case core.QueryTypeNameSearch:
		return r.hybridSearch(ctx, query, topK, monitor)
	}

	hits := r.semanticSearch(ctx, query, topK, monitor)
	if len(hits) >= topK {
		return hits
	}
	exact := r.exactSearch(ctx, query, topK-len(hits), monitor)
	merged := truncate(MergeHits(hits, exact), topK)
	monitor.AfterMerge(merged)
	return merged
}

// exactSearch looks up UN numbers found in query, falling back to catalog
// name matches when the query has none.
func (r *Retriever) exactSearch(ctx context.Context, query string, topK int, monitor Monitor) []core.SearchHit {
	unNumbers := ExtractUNNumbers(query)
	hits, err := r.exactHits(ctx, query, unNumbers, topK)
	if err != nil {
		r.logger.Error("exact search failed", "query", query, "err", err)
		hits = []core.SearchHit{}
	}
	monitor.AfterExactSearch(unNumbers, hits)
	r.logger.Debug("exact search complete", "query", query, "hits", len(hits))
	return hits
}

func (r *Retriever) exactHits(ctx context.Context, query string, unNumbers []int, topK int) ([]core.SearchHit, error) {
	hits := make([]core.SearchHit, 0)
	for _, un := range unNumbers {
		records, err := r.chemicals.GetByUNNumber(ctx, un)
		if err != nil {
			return nil, fmt.Errorf("lookup UN%d: %w", un, err)
		}
		for _, rec := range records {
			hits = append(hits, chemicalHit(rec, exactIDScore, core.SearchTypeExactID))
		}
	}
	if len(hits) > 0 {
		return truncate(hits, topK), nil
	}

	// An empty substring would match the whole catalog.
	if strings.TrimSpace(query) == "" {
		return hits, nil
	}

	records, err := r.chemicals.SearchByName(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("name search: %w", err)
	}
	if len(records) == 0 {
		for _, term := range ExpandSearchTerms(query) {
			more, err := r.chemicals.SearchByName(ctx, term, topK)
			if err != nil {
				return nil, fmt.Errorf("name search %q: %w", term, err)
			}
			records = append(records, more...)
			if len(records) >= topK {
				break
			}
		}
	}
	for _, rec := range records {
		hits = append(hits, chemicalHit(rec, exactNameScore, core.SearchTypeExactName))
	}
	return truncate(hits, topK), nil
}

func chemicalHit(rec *core.ChemicalRecord, score float64, searchType core.SearchType) core.SearchHit {
	meta := normalize.ChemicalMetadata(rec)
	meta.SearchType = searchType
	return core.SearchHit{
		Content:  normalize.ChemicalContent(rec),
		Metadata: meta,
		Score:    score,
		Chemical: rec,
	}
}

// semanticSearch returns index hits scoring at least the similarity threshold.
// A non-positive topK uses the retrieval cap.
func (r *Retriever) semanticSearch(ctx context.Context, query string, topK int, monitor Monitor) []core.SearchHit {
	hits, err := r.semanticHits(ctx, query, topK)
	switch {
	case errors.Is(err, index.ErrNotFitted):
		r.logger.Warn("semantic index is empty", "query", query)
		hits = []core.SearchHit{}
	case err != nil:
		r.logger.Error("semantic search failed", "query", query, "err", err)
		hits = []core.SearchHit{}
	}
	monitor.AfterSemanticSearch(hits)
	r.logger.Debug("semantic search complete", "query", query, "hits", len(hits))
	return hits
}

func (r *Retriever) semanticHits(ctx context.Context, query string, topK int) ([]core.SearchHit, error) {
	if topK <= 0 {
		topK = r.settings.RetrievalTopK
	}
	matches, err := r.index.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	hits := make([]core.SearchHit, 0, len(matches))
	for _, m := range matches {
		score := math.Max(0, math.Min(1, m.Similarity))
		if score <= 0 || score < r.settings.SimilarityThreshold {
			continue
		}
		meta := m.Document.Metadata
		meta.SearchType = core.SearchTypeSemantic
		hits = append(hits, core.SearchHit{
			Content:  m.Document.Content,
			Metadata: meta,
			Score:    score,
		})
	}
	return hits, nil
}

// hybridSearch runs exact and semantic searches concurrently and merges them.
// Each side is capped at ceil(topK/2)+1 before merging.
func (r *Retriever) hybridSearch(ctx context.Context, query string, topK int, monitor Monitor) []core.SearchHit {
	subK := (topK+1)/2 + 1

	var (
		exact, semantic []core.SearchHit
		g               errgroup.Group
	)
	g.Go(func() error {
		return r.guard("exact search", func() {
			exact = r.exactSearch(ctx, query, subK, monitor)
		})
	})
	g.Go(func() error {
		return r.guard("semantic search", func() {
			semantic = r.semanticSearch(ctx, query, subK, monitor)
		})
	})
	if err := g.Wait(); err != nil {
		r.logger.Error("hybrid sub-search failed", "query", query, "err", err)
	}

	merged := truncate(MergeHits(exact, semantic), topK)
	monitor.AfterMerge(merged)
	r.logger.Debug("hybrid search complete", "query", query, "hits", len(merged))
	return merged
}

// guard runs fn, converting a panic into an error. Goroutines started by the
// retriever are outside the recover in RetrieveWithMonitor.
func (r *Retriever) guard(step string, fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", step, p)
		}
	}()
	fn()
	return nil
}
