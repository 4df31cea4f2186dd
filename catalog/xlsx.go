package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// utf8BOM lets spreadsheet tools detect UTF-8 in the converted CSV.
const utf8BOM = "\ufeff"

// LoadXLSX decodes a catalog sheet from a workbook. An empty sheet name
// selects the first sheet.
func (l *Loader) LoadXLSX(path, sheet string) (*Result, error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	result, err := l.decodeRows(rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded catalog", "format", "xlsx", "records", len(result.Records), "skipped", result.Skipped)
	return result, nil
}

// ConvertXLSXToCSV writes one sheet of a workbook as UTF-8 CSV with a byte
// order mark. An empty csvPath writes next to the workbook with a .csv
// extension; an empty sheet selects the first sheet, and a numeric sheet
// that names no sheet is taken as a zero-based index. It returns the path
// written and the number of data rows.
func ConvertXLSXToCSV(xlsxPath, csvPath, sheet string) (string, int, error) {
	rows, err := readSheet(xlsxPath, sheet)
	if err != nil {
		return "", 0, err
	}
	if len(rows) == 0 {
		return "", 0, ErrEmptyFile
	}

	if csvPath == "" {
		csvPath = strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + ".csv"
	}
	if dir := filepath.Dir(csvPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(csvPath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return "", 0, err
	}

	// Every row gets the header's width so the CSV stays rectangular.
	width := len(rows[0])
	for _, row := range rows {
		width = max(width, len(row))
	}

	w := csv.NewWriter(f)
	for _, row := range rows {
		if len(row) < width {
			row = append(slices.Clone(row), make([]string, width-len(row))...)
		}
		if err := w.Write(row); err != nil {
			return "", 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, err
	}
	return csvPath, len(rows) - 1, f.Close()
}

func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name, err := resolveSheet(f.GetSheetList(), sheet)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return rows, nil
}

func resolveSheet(sheets []string, sheet string) (string, error) {
	if len(sheets) == 0 {
		return "", ErrSheetNotFound
	}
	if sheet == "" {
		return sheets[0], nil
	}
	if slices.Contains(sheets, sheet) {
		return sheet, nil
	}
	if i, err := strconv.Atoi(sheet); err == nil && i >= 0 && i < len(sheets) {
		return sheets[i], nil
	}
	return "", fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
}
