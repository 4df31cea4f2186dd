package catalog

import "errors"

var (
	// ErrMissingColumn is returned when a required column has no header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyFile is returned when a catalog file has no header row.
	ErrEmptyFile = errors.New("catalog file is empty")

	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrSheetNotFound is returned when a workbook has no matching sheet.
	ErrSheetNotFound = errors.New("sheet not found")
)
