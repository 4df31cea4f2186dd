package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("retrieval defaults", func(t *testing.T) {
		assert.Equal(t, 50, cfg.RetrievalTopK)
		assert.Equal(t, 0.1, cfg.SimilarityThreshold)
		assert.Equal(t, 5, cfg.DefaultTopK)
	})

	t.Run("ingestion defaults", func(t *testing.T) {
		assert.Equal(t, 500, cfg.MaxChunkSize)
		assert.Equal(t, 50, cfg.ChunkOverlap)
		assert.Equal(t, 100, cfg.BatchSize)
		assert.Equal(t, 4, cfg.MaxWorkers)
		assert.Equal(t, 5000, cfg.MaxFeatures)
	})

	t.Run("storage defaults", func(t *testing.T) {
		assert.Equal(t, BackendBadger, cfg.CatalogBackend)
		assert.NotEmpty(t, cfg.DataDir)
		assert.Equal(t, cfg.DataDir, cfg.CatalogDir())
	})

	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithDataDir("/tmp/hazmat"),
		WithCatalogBackend(" SQLite "),
		WithSQLiteDir("/tmp/catalog"),
		WithRetrievalTopK(20),
		WithSimilarityThreshold(0.25),
		WithDefaultTopK(3),
		WithChunking(200, 20),
		WithBatchSize(10),
		WithMaxWorkers(2),
		WithMaxFeatures(100),
		WithLogLevel("DEBUG"),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/hazmat", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.CatalogBackend)
	assert.Equal(t, "/tmp/catalog", cfg.CatalogDir())
	assert.Equal(t, 20, cfg.RetrievalTopK)
	assert.Equal(t, 0.25, cfg.SimilarityThreshold)
	assert.Equal(t, 3, cfg.DefaultTopK)
	assert.Equal(t, 200, cfg.MaxChunkSize)
	assert.Equal(t, 20, cfg.ChunkOverlap)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.Equal(t, 100, cfg.MaxFeatures)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		opt  ConfigOption
	}{
		{"empty data dir", WithDataDir("")},
		{"unknown backend", WithCatalogBackend("postgres")},
		{"zero retrieval top k", WithRetrievalTopK(0)},
		{"negative threshold", WithSimilarityThreshold(-0.1)},
		{"threshold above one", WithSimilarityThreshold(1.5)},
		{"zero default top k", WithDefaultTopK(0)},
		{"overlap equals size", WithChunking(50, 50)},
		{"negative overlap", WithChunking(50, -1)},
		{"zero batch size", WithBatchSize(0)},
		{"zero workers", WithMaxWorkers(0)},
		{"zero features", WithMaxFeatures(0)},
		{"unknown log level", WithLogLevel("verbose")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opt).Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_Decode(t *testing.T) {
	t.Run("overlays file values on defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.Decode(strings.NewReader("catalog_backend: sqlite\nretrieval_top_k: 30\nsimilarity_threshold: 0.2\n"))
		require.NoError(t, err)

		assert.Equal(t, BackendSQLite, cfg.CatalogBackend)
		assert.Equal(t, 30, cfg.RetrievalTopK)
		assert.Equal(t, 0.2, cfg.SimilarityThreshold)
		assert.Equal(t, 500, cfg.MaxChunkSize)
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Decode(strings.NewReader("")))
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.Decode(strings.NewReader("retrival_top_k: 30\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"HAZMAT_DATA_DIR":             "/srv/hazmat",
		"HAZMAT_CATALOG_BACKEND":      "sqlite",
		"HAZMAT_BATCH_SIZE":           "25",
		"HAZMAT_SIMILARITY_THRESHOLD": "0.3",
		"HAZMAT_MAX_WORKERS":          "  ",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "/srv/hazmat", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.CatalogBackend)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 0.3, cfg.SimilarityThreshold)
	assert.Equal(t, 4, cfg.MaxWorkers, "blank values are ignored")

	env["HAZMAT_BATCH_SIZE"] = "lots"
	require.ErrorIs(t, DefaultConfig().ApplyEnv(lookup), ErrInvalidConfig)

	env["HAZMAT_BATCH_SIZE"] = "25"
	env["HAZMAT_SIMILARITY_THRESHOLD"] = "high"
	require.ErrorIs(t, DefaultConfig().ApplyEnv(lookup), ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hazmatrag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: "+dir+"\ndefault_top_k: 8\n"), 0o644))

	t.Setenv("HAZMAT_DEFAULT_TOP_K", "")
	t.Setenv("HAZMAT_MAX_FEATURES", "1200")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8, cfg.DefaultTopK)
	assert.Equal(t, 1200, cfg.MaxFeatures)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid result", func(t *testing.T) {
		t.Setenv("HAZMAT_CATALOG_BACKEND", "mongo")
		_, err := Load("")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLogLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLogLevel("trace")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
