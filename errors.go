package hazmatrag

import "errors"

var (
	// ErrCatalogFileRequired indicates a build without a catalog file.
	ErrCatalogFileRequired = errors.New("catalog file is required")

	// ErrAlreadyBuilt indicates a build over existing data without Overwrite.
	ErrAlreadyBuilt = errors.New("database already holds a catalog or index")
)
