package index

import (
	"errors"

	"github.com/poiesic/hazmatrag/vectorize"
)

var (
	// ErrNotFitted is returned by Search before any document was added.
	ErrNotFitted = vectorize.ErrNotFitted

	// ErrEmptyBatch is returned when AddDocuments has nothing to index.
	ErrEmptyBatch = errors.New("no indexable documents in batch")

	// ErrRepositoryRequired is returned when no document repository is provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrEncoderRequired is returned when no encoder is provided.
	ErrEncoderRequired = errors.New("encoder required")
)
