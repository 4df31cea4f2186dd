package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. HAZMAT_DATA_DIR.
const EnvPrefix = "HAZMAT_"

// Load builds a Config from defaults, then the YAML file at path when path
// is not empty, then HAZMAT_* environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if err := cfg.Decode(f); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode overlays YAML settings onto c. Unknown keys are rejected and an
// empty document leaves c unchanged.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overlays HAZMAT_* variables found through lookup onto c.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"DATA_DIR":        &c.DataDir,
		"CATALOG_BACKEND": &c.CatalogBackend,
		"SQLITE_DIR":      &c.SQLiteDir,
		"LOG_LEVEL":       &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := env(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"RETRIEVAL_TOP_K":  &c.RetrievalTopK,
		"DEFAULT_TOP_K":    &c.DefaultTopK,
		"MAX_CHUNK_SIZE":   &c.MaxChunkSize,
		"CHUNK_OVERLAP":    &c.ChunkOverlap,
		"BATCH_SIZE":       &c.BatchSize,
		"MAX_WORKERS":      &c.MaxWorkers,
		"MAX_FEATURES":     &c.MaxFeatures,
		"QUERY_CACHE_SIZE": &c.QueryCacheSize,
	}
	for key, dst := range ints {
		if v, ok := env(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, EnvPrefix, key, v)
			}
			*dst = n
		}
	}

	if v, ok := env("SIMILARITY_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSIMILARITY_THRESHOLD=%q is not a number", ErrInvalidConfig, EnvPrefix, v)
		}
		c.SimilarityThreshold = f
	}
	return nil
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, level)
	}
}
