package search

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/index"
	"github.com/poiesic/hazmatrag/normalize"
	"github.com/poiesic/hazmatrag/storage"
	"github.com/poiesic/hazmatrag/storage/badger"
	"github.com/poiesic/hazmatrag/vectorize/tfidf"
)

func catalogRecords() []*core.ChemicalRecord {
	return []*core.ChemicalRecord{
		{UNNumber: 1133, ChineseName: "黏合剂", EnglishName: "ADHESIVES", Category: "3", PackagingGroup: "I", SpecialProvisions: "640D"},
		{UNNumber: 1133, ChineseName: "黏合剂", EnglishName: "ADHESIVES", Category: "3", PackagingGroup: "II", SpecialProvisions: "640E"},
		{UNNumber: 3480, ChineseName: "锂离子电池组", EnglishName: "LITHIUM ION BATTERIES", Category: "9", SpecialProvisions: "188 230 310"},
		{UNNumber: 1203, ChineseName: "车用汽油", EnglishName: "MOTOR SPIRIT", Category: "3", PackagingGroup: "II", SpecialProvisions: "243 534"},
		{UNNumber: 1090, ChineseName: "丙酮", EnglishName: "ACETONE", Category: "3", PackagingGroup: "II"},
	}
}

func regulationDocuments() []core.Document {
	docs := []struct{ id, content string }{
		{"appendix_1_0", "188 锂电池 特殊规定"},
		{"appendix_2_0", "243 汽油 燃料 规定"},
		{"appendix_3_0", "类别3 易燃液体 包装"},
		{"appendix_4_0", "黏合剂 胶水 运输"},
	}
	out := make([]core.Document, len(docs))
	for i, d := range docs {
		out[i] = core.Document{
			Content: d.content,
			Metadata: core.DocumentMetadata{
				ID:        d.id,
				Source:    core.SourceRegulationCorpus,
				DocType:   core.DocTypeRegulation,
				SectionID: i + 1,
			},
		}
	}
	return out
}

type fixture struct {
	chemicals storage.ChemicalRepository
	index     *index.Index
	recorder  *recordingIndex
	retriever *Retriever
}

// newFixture builds a catalog, a fitted TF-IDF index over the catalog and
// regulation documents, and a retriever wired to both.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()

	chemicals, docs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chemicals.Close()
		docs.Close()
		backend.Close()
	})

	added, err := chemicals.AddChemicals(ctx, catalogRecords()...)
	require.NoError(t, err)

	corpus := make([]core.Document, 0, len(added)+4)
	for _, rec := range added {
		doc, err := normalize.ChemicalIndexDocument(rec)
		require.NoError(t, err)
		corpus = append(corpus, doc)
	}
	corpus = append(corpus, regulationDocuments()...)

	enc, err := tfidf.New()
	require.NoError(t, err)
	idx, err := index.Open(ctx, docs, enc)
	require.NoError(t, err)
	_, err = idx.AddDocuments(ctx, corpus)
	require.NoError(t, err)

	recorder := &recordingIndex{SemanticIndex: idx}
	retriever, err := NewRetriever(chemicals, recorder, opts...)
	require.NoError(t, err)

	return &fixture{chemicals: chemicals, index: idx, recorder: recorder, retriever: retriever}
}

// recordingIndex remembers every query sent to the wrapped index.
type recordingIndex struct {
	SemanticIndex
	mu      sync.Mutex
	queries []string
}

func (r *recordingIndex) Search(ctx context.Context, query string, topK int) ([]index.Match, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return r.SemanticIndex.Search(ctx, query, topK)
}

func (r *recordingIndex) searched(query string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.queries, query)
}

func (r *recordingIndex) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = nil
}

// failingIndex fails or panics on every search.
type failingIndex struct {
	panics bool
}

func (f *failingIndex) Search(ctx context.Context, query string, topK int) ([]index.Match, error) {
	if f.panics {
		panic("index corrupted")
	}
	return nil, errors.New("index unavailable")
}

func (f *failingIndex) Stats() core.IndexStats {
	return core.IndexStats{}
}

func ids(hits []core.SearchHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Metadata.ID
	}
	return out
}

func requireSortedByScore(t *testing.T, hits []core.SearchHit) {
	t.Helper()
	for i := 1; i < len(hits); i++ {
		require.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score, "hits not sorted at %d", i)
	}
}
