package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/storage"
	"github.com/poiesic/hazmatrag/storage/badger"
	"github.com/poiesic/hazmatrag/vectorize"
	"github.com/poiesic/hazmatrag/vectorize/mock"
	"github.com/poiesic/hazmatrag/vectorize/tfidf"
)

func regulation(id, content string) core.Document {
	return core.Document{
		Content: content,
		Metadata: core.DocumentMetadata{
			ID:      id,
			Source:  core.SourceRegulationCorpus,
			DocType: core.DocTypeRegulation,
		},
	}
}

func chemical(id string, un int, content string) core.Document {
	return core.Document{
		Content: content,
		Metadata: core.DocumentMetadata{
			ID:       id,
			Source:   core.SourceCatalog,
			DocType:  core.DocTypeChemical,
			UNNumber: un,
		},
	}
}

var corpus = []core.Document{
	chemical("chemical_3480_1", 3480, "联合国编号：UN3480 | 中文名称：锂离子电池组 | 特殊规定：188 230"),
	chemical("chemical_1133_2", 1133, "联合国编号：UN1133 | 中文名称：黏合剂 | 危险类别：3"),
	regulation("appendix_1_0", "188 锂电池的特殊规定：锂含量不超过1克"),
	regulation("appendix_2_0", "第3类 易燃液体的包装要求"),
}

type fixture struct {
	docs    storage.DocumentRepository
	backend *badger.Backend
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	chemicals, docs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chemicals.Close()
		docs.Close()
		backend.Close()
	})
	return &fixture{docs: docs, backend: backend}
}

func (f *fixture) open(t *testing.T, encoder vectorize.Encoder) *Index {
	t.Helper()
	if encoder == nil {
		var err error
		encoder, err = tfidf.New()
		require.NoError(t, err)
	}
	idx, err := Open(context.Background(), f.docs, encoder)
	require.NoError(t, err)
	return idx
}

func TestOpen_RequiresCollaborators(t *testing.T) {
	f := newFixture(t)
	enc, err := tfidf.New()
	require.NoError(t, err)

	_, err = Open(context.Background(), nil, enc)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	_, err = Open(context.Background(), f.docs, nil)
	assert.ErrorIs(t, err, ErrEncoderRequired)
	_, err = Open(context.Background(), f.docs, enc, WithCacheSize(0))
	assert.Error(t, err)
}

func TestIndex_SearchBeforeFit(t *testing.T) {
	idx := newFixture(t).open(t, nil)

	_, err := idx.Search(context.Background(), "电池", 5)
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.False(t, idx.IsFitted())
}

func TestIndex_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	idx := newFixture(t).open(t, nil)

	added, err := idx.AddDocuments(ctx, corpus)
	require.NoError(t, err)
	assert.Equal(t, len(corpus), added)
	assert.True(t, idx.IsFitted())

	t.Run("exact content round trip", func(t *testing.T) {
		for _, doc := range corpus {
			matches, err := idx.Search(ctx, doc.Content, 3)
			require.NoError(t, err)
			require.NotEmpty(t, matches)
			assert.Equal(t, doc.Metadata.ID, matches[0].Document.Metadata.ID)
			assert.GreaterOrEqual(t, matches[0].Similarity, 0.99)
		}
	})

	t.Run("ranked descending and capped", func(t *testing.T) {
		matches, err := idx.Search(ctx, "188 锂电池", 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity)
		assert.Equal(t, "appendix_1_0", matches[0].Document.Metadata.ID)
	})

	t.Run("non positive topK", func(t *testing.T) {
		matches, err := idx.Search(ctx, "电池", 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("cached query returns same result", func(t *testing.T) {
		first, err := idx.Search(ctx, "黏合剂", 1)
		require.NoError(t, err)
		second, err := idx.Search(ctx, "黏合剂", 1)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestIndex_LaterBatchesOnlyTransform(t *testing.T) {
	ctx := context.Background()
	idx := newFixture(t).open(t, nil)

	_, err := idx.AddDocuments(ctx, corpus[:2])
	require.NoError(t, err)
	vocab := idx.Stats().VocabularySize

	_, err = idx.AddDocuments(ctx, corpus[2:])
	require.NoError(t, err)
	assert.Equal(t, vocab, idx.Stats().VocabularySize)
	assert.Equal(t, len(corpus), idx.Len())
}

func TestIndex_AddDocumentsSkipsInvalidAndAssignsIDs(t *testing.T) {
	ctx := context.Background()
	idx := newFixture(t).open(t, nil)

	_, err := idx.AddDocuments(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = idx.AddDocuments(ctx, []core.Document{regulation("x", "   ")})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	noID := regulation("", "危险货物包装指南")
	added, err := idx.AddDocuments(ctx, []core.Document{noID, regulation("bad", "")})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	docs := idx.Documents()
	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].Metadata.ID)
}

func TestIndex_Stats(t *testing.T) {
	ctx := context.Background()
	idx := newFixture(t).open(t, nil)

	stats := idx.Stats()
	assert.Equal(t, 0, stats.TotalDocuments)
	assert.False(t, stats.Fitted)

	_, err := idx.AddDocuments(ctx, corpus)
	require.NoError(t, err)

	stats = idx.Stats()
	assert.Equal(t, 4, stats.TotalDocuments)
	assert.True(t, stats.Fitted)
	assert.Positive(t, stats.VocabularySize)
	assert.Equal(t, 2, stats.DocTypes[core.DocTypeChemical])
	assert.Equal(t, 2, stats.DocTypes[core.DocTypeRegulation])
	assert.Equal(t, 2, stats.Sources[core.SourceCatalog])
	assert.Equal(t, 2, stats.Sources[core.SourceRegulationCorpus])
}

func TestIndex_ReopenRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	idx := f.open(t, nil)
	_, err := idx.AddDocuments(ctx, corpus)
	require.NoError(t, err)
	want, err := idx.Search(ctx, "锂离子电池组", 2)
	require.NoError(t, err)

	reopened := f.open(t, nil)
	assert.True(t, reopened.IsFitted())
	assert.Equal(t, len(corpus), reopened.Len())
	got, err := reopened.Search(ctx, "锂离子电池组", 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIndex_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	idx := f.open(t, nil)

	_, err := idx.AddDocuments(ctx, corpus)
	require.NoError(t, err)
	require.NoError(t, idx.Reset(ctx))

	assert.False(t, idx.IsFitted())
	assert.Equal(t, 0, idx.Len())
	_, err = idx.Search(ctx, "电池", 3)
	assert.ErrorIs(t, err, ErrNotFitted)

	count, err := f.docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	_, err = f.docs.LoadVectorizerState(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// refit on a new corpus after reset
	_, err = idx.AddDocuments(ctx, corpus[2:])
	require.NoError(t, err)
	assert.True(t, idx.IsFitted())
}

func TestIndex_EncoderFailure(t *testing.T) {
	ctx := context.Background()
	enc := mock.NewMockEncoder()
	idx := newFixture(t).open(t, enc)

	_, err := idx.AddDocuments(ctx, corpus)
	require.NoError(t, err)

	boom := errors.New("boom")
	enc.EncodeFunc = func(ctx context.Context, texts []string) ([]core.SparseVector, error) {
		return nil, boom
	}

	_, err = idx.Search(ctx, "never cached", 3)
	assert.ErrorIs(t, err, boom)

	_, err = idx.AddDocuments(ctx, []core.Document{regulation("late", "晚到的规定")})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, len(corpus), idx.Len())
}

func TestIndex_VectorCountMismatch(t *testing.T) {
	enc := mock.NewMockEncoder()
	enc.FitFunc = func(ctx context.Context, texts []string) ([]core.SparseVector, error) {
		return []core.SparseVector{}, nil
	}
	idx := newFixture(t).open(t, enc)

	_, err := idx.AddDocuments(context.Background(), corpus)
	assert.Error(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.IsFitted())
}
