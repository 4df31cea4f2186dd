package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/index"
	"github.com/poiesic/hazmatrag/storage"
	"github.com/poiesic/hazmatrag/storage/badger"
	"github.com/poiesic/hazmatrag/vectorize/tfidf"
)

const appendixMarkdown = `# 附录A 特殊规定

16 新的或现有的爆炸性物质或物品的样品，可以按照主管机关的指示运输，用于试验、分类、研究与开发、质量控制等目的。这类样品应当按照适用的包装要求进行包装。

188 托运的锂电池和电池组如满足下列条件，不受本规定其他条款限制：对于锂金属或锂合金电池，锂含量不超过1克；对于锂离子电池，瓦特小时额定值不超过20Wh。

243 用于火花点火发动机的汽油、车用汽油和航空汽油，应当划入包装类别II，并且满足本规定对易燃液体运输和包装的全部要求。

## 说明

短句。
`

func testRecords() []*core.ChemicalRecord {
	return []*core.ChemicalRecord{
		{UNNumber: 1133, ChineseName: "黏合剂", EnglishName: "ADHESIVES", Category: "3", PackagingGroup: "I"},
		{UNNumber: 1133, ChineseName: "黏合剂", EnglishName: "ADHESIVES", Category: "3", PackagingGroup: "II"},
		{UNNumber: 3480, ChineseName: "锂离子电池组", Category: "9", SpecialProvisions: "188 230 310"},
		{UNNumber: 1203, ChineseName: "车用汽油", Category: "3", PackagingGroup: "II", SpecialProvisions: "243"},
		{UNNumber: 1090, ChineseName: "丙酮", Category: "3", PackagingGroup: "II"},
	}
}

type testEnv struct {
	chemicals storage.ChemicalRepository
	index     *index.Index
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	chemicals, docs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		chemicals.Close()
		backend.Close()
	})

	enc, err := tfidf.New()
	require.NoError(t, err)
	idx, err := index.Open(context.Background(), docs, enc)
	require.NoError(t, err)

	return &testEnv{chemicals: chemicals, index: idx}
}

func newTestPipeline(t *testing.T, env *testEnv, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(env.chemicals, env.index, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

// failingIndex rejects every batch.
type failingIndex struct {
	calls int
}

func (f *failingIndex) AddDocuments(ctx context.Context, docs []core.Document) (int, error) {
	f.calls++
	return 0, errors.New("index unavailable")
}

func TestNewPipeline(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(env.chemicals, env.index)
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, DefaultBatchSize, p.batchSize)
	})

	t.Run("with options", func(t *testing.T) {
		p, err := NewPipeline(env.chemicals, env.index,
			WithPoolSize(2),
			WithBatchSize(10),
			WithChunking(200, 20),
			WithLogger(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 10, p.batchSize)
		assert.Equal(t, 2, p.pool.Cap())
	})

	t.Run("pool size below one is clamped", func(t *testing.T) {
		p, err := NewPipeline(env.chemicals, env.index, WithPoolSize(0))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 1, p.pool.Cap())
	})

	t.Run("invalid batch size", func(t *testing.T) {
		_, err := NewPipeline(env.chemicals, env.index, WithBatchSize(0))
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("invalid chunking", func(t *testing.T) {
		_, err := NewPipeline(env.chemicals, env.index, WithChunking(50, 50))
		assert.Error(t, err)
	})

	t.Run("nil chemical repository", func(t *testing.T) {
		_, err := NewPipeline(nil, env.index)
		assert.Equal(t, ErrChemicalRepositoryRequired, err)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewPipeline(env.chemicals, nil)
		assert.Equal(t, ErrIndexRequired, err)
	})
}

func TestPipeline_ImportChemicals(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env, WithBatchSize(2))
	ctx := context.Background()

	records := append(testRecords(),
		&core.ChemicalRecord{UNNumber: 0, ChineseName: "无编号"},
		&core.ChemicalRecord{UNNumber: 1993, ChineseName: "  "},
		nil,
	)

	report, err := p.ImportChemicals(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Added: 5, Skipped: 3}, report)

	count, err := env.chemicals.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	variants, err := env.chemicals.GetByUNNumber(ctx, 1133)
	require.NoError(t, err)
	assert.Len(t, variants, 2)
}

func TestPipeline_IndexCatalog(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env, WithBatchSize(2), WithPoolSize(3))
	ctx := context.Background()

	_, err := p.ImportChemicals(ctx, testRecords())
	require.NoError(t, err)

	added, err := p.IndexCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, added)
	assert.True(t, env.index.IsFitted())

	docs := env.index.Documents()
	require.Len(t, docs, 5)
	records, err := env.chemicals.GetAll(ctx, 0)
	require.NoError(t, err)
	for i, doc := range docs {
		// Batches are reassembled in catalog order.
		assert.Equal(t, records[i].UNNumber, doc.Metadata.UNNumber)
		assert.Equal(t, core.DocTypeChemical, doc.Metadata.DocType)
		assert.Equal(t, core.SourceCatalog, doc.Metadata.Source)
		assert.Contains(t, doc.Content, "中文名称：")
	}

	matches, err := env.index.Search(ctx, "锂离子电池组", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 3480, matches[0].Document.Metadata.UNNumber)
}

func TestPipeline_IndexCatalogEmpty(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env)

	_, err := p.IndexCatalog(context.Background())
	assert.ErrorIs(t, err, index.ErrEmptyBatch)
	assert.False(t, env.index.IsFitted())
}

func TestPipeline_ImportAppendix(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env, WithBatchSize(1))
	ctx := context.Background()

	_, err := p.ImportChemicals(ctx, testRecords())
	require.NoError(t, err)
	_, err = p.IndexCatalog(ctx)
	require.NoError(t, err)
	vocabulary := env.index.Stats().VocabularySize

	added, err := p.ImportAppendix(ctx, appendixMarkdown)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	stats := env.index.Stats()
	assert.Equal(t, 8, stats.TotalDocuments)
	assert.Equal(t, 3, stats.Sources[core.SourceRegulationCorpus])
	assert.Equal(t, vocabulary, stats.VocabularySize, "later batches must not refit")

	var ids []string
	for _, doc := range env.index.Documents() {
		if doc.Metadata.DocType == core.DocTypeRegulation {
			ids = append(ids, doc.Metadata.ID)
		}
	}
	assert.Equal(t, []string{"appendix_1_0", "appendix_2_0", "appendix_3_0"}, ids)
}

func TestPipeline_ImportAppendixFits(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env)
	ctx := context.Background()

	added, err := p.ImportAppendix(ctx, appendixMarkdown)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.True(t, env.index.IsFitted())

	matches, err := env.index.Search(ctx, "锂电池", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, strings.HasPrefix(matches[0].Document.Content, "188 "))
}

func TestPipeline_ImportAppendixNoChunks(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env)

	added, err := p.ImportAppendix(context.Background(), "# 标题\n\n短句。\n")
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.False(t, env.index.IsFitted())
}

func TestPipeline_ImportAppendixFile(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "appendix.md")
	require.NoError(t, os.WriteFile(path, []byte(appendixMarkdown), 0o644))

	added, err := p.ImportAppendixFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	_, err = p.ImportAppendixFile(ctx, filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestPipeline_IndexFailure(t *testing.T) {
	env := setupTestEnv(t)
	failing := &failingIndex{}
	p, err := NewPipeline(env.chemicals, failing)
	require.NoError(t, err)
	defer p.Release()
	ctx := context.Background()

	_, err = p.ImportChemicals(ctx, testRecords())
	require.NoError(t, err)

	_, err = p.IndexCatalog(ctx)
	assert.ErrorContains(t, err, "index unavailable")

	_, err = p.ImportAppendix(ctx, appendixMarkdown)
	assert.ErrorContains(t, err, "index unavailable")
	assert.Equal(t, 2, failing.calls)
}

func TestPipeline_CancelledContext(t *testing.T) {
	env := setupTestEnv(t)
	p := newTestPipeline(t, env)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ImportAppendix(ctx, appendixMarkdown)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, env.index.IsFitted())
}

func TestPipeline_Released(t *testing.T) {
	env := setupTestEnv(t)
	p, err := NewPipeline(env.chemicals, env.index)
	require.NoError(t, err)
	p.Release()

	_, err = p.ImportAppendix(context.Background(), appendixMarkdown)
	assert.Error(t, err)
}
