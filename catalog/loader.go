package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/hazmatrag/core"
)

// Result holds the records decoded from a catalog file.
type Result struct {
	Records []*core.ChemicalRecord
	Skipped int
}

// Loader decodes catalog files into records.
type Loader struct {
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a catalog loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "catalog")
	return l
}

// LoadFile decodes a .csv or .xlsx catalog, choosing the reader by extension.
// Workbooks are read from their first sheet.
func (l *Loader) LoadFile(path string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.LoadCSV(f)
	case ".xlsx", ".xlsm":
		return l.LoadXLSX(path, "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadCSV decodes a CSV catalog. A UTF-8 byte order mark is accepted.
func (l *Loader) LoadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	positions, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		l.decodeRow(result, positions, row, line)
	}

	l.logger.Info("loaded catalog", "format", "csv", "records", len(result.Records), "skipped", result.Skipped)
	return result, nil
}

// decodeRows decodes rows whose first element is the header.
func (l *Loader) decodeRows(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	positions, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}
	result := &Result{}
	for i, row := range rows[1:] {
		l.decodeRow(result, positions, row, i+2)
	}
	return result, nil
}

func (l *Loader) decodeRow(result *Result, positions headerMap, row []string, line int) {
	if isBlank(row) {
		return
	}

	rawUN := positions.cell(row, unNumberColumn)
	unNumber, err := core.ParseUNNumber(rawUN)
	if err != nil {
		l.logger.Warn("skipping row with invalid UN number", "line", line, "value", rawUN)
		result.Skipped++
		return
	}

	rec := &core.ChemicalRecord{UNNumber: unNumber}
	for i, c := range columns {
		if c.set != nil {
			c.set(rec, positions.cell(row, i))
		}
	}
	if err := core.ValidateChemicalRecord(rec); err != nil {
		l.logger.Warn("skipping invalid row", "line", line, "err", err)
		result.Skipped++
		return
	}
	result.Records = append(result.Records, rec)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
