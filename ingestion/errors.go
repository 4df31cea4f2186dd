package ingestion

import "errors"

var (
	// ErrChemicalRepositoryRequired is returned when a chemical repository is not provided.
	ErrChemicalRepositoryRequired = errors.New("chemical repository required")

	// ErrIndexRequired is returned when a document index is not provided.
	ErrIndexRequired = errors.New("document index required")

	// ErrInvalidBatchSize is returned when a batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)
