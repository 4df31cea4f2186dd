package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrCatalogRequired is returned when no chemical repository is provided.
	ErrCatalogRequired = errors.New("chemical repository required")

	// ErrIndexRequired is returned when no index is provided.
	ErrIndexRequired = errors.New("index required")
)
