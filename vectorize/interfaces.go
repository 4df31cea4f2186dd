package vectorize

import (
	"context"

	"github.com/poiesic/hazmatrag/core"
)

// Tokenizer splits text into index terms.
// Implementations must be deterministic and safe for concurrent use.
type Tokenizer interface {
	// Tokenize returns the terms of text in order of appearance.
	// Repeated terms are returned repeatedly.
	Tokenize(text string) []string
}

// Encoder turns text into L2-normalized sparse vectors.
// Implementations must be thread-safe for concurrent use.
type Encoder interface {
	// Fit learns the vocabulary from texts and returns their vectors.
	// Returns ErrAlreadyFitted if the encoder was fitted before; refitting
	// requires Reset.
	Fit(ctx context.Context, texts []string) ([]core.SparseVector, error)

	// Encode vectorizes texts with the fitted vocabulary.
	// Returns ErrNotFitted if Fit or Load has not been called.
	Encode(ctx context.Context, texts []string) ([]core.SparseVector, error)

	// EncodeText vectorizes a single text.
	EncodeText(ctx context.Context, text string) (core.SparseVector, error)

	// IsFitted reports whether the encoder holds a vocabulary.
	IsFitted() bool

	// VocabularySize returns the number of features, 0 before fitting.
	VocabularySize() int

	// State exports the fitted state for persistence.
	State() (*core.VectorizerState, error)

	// Load replaces the encoder state with a persisted one.
	Load(state *core.VectorizerState) error

	// Reset discards the fitted state.
	Reset()
}
