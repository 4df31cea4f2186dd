package storage

import (
	"context"

	"github.com/poiesic/hazmatrag/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Reset removes every record owned by the repository.
	// Identifier sequences are not rewound.
	Reset(ctx context.Context) error

	// Close releases resources held by the repository.
	// It does not close a backend shared with other repositories.
	Close() error
}

// ChemicalRepository provides read-mostly access to the chemical catalog.
type ChemicalRepository interface {
	Repository

	// AddChemicals stores catalog records.
	// Every record receives a new ID from the repository sequence.
	// Returns the records with generated IDs populated.
	AddChemicals(ctx context.Context, records ...*core.ChemicalRecord) ([]*core.ChemicalRecord, error)

	// GetByUNNumber returns every record with the given UN number in insertion order.
	// Packaging variants are all returned. An unknown number yields an empty slice.
	GetByUNNumber(ctx context.Context, unNumber int) ([]*core.ChemicalRecord, error)

	// SearchByName returns records whose Chinese name contains substr.
	// Matching is case-sensitive. At most limit records are returned in insertion order.
	SearchByName(ctx context.Context, substr string, limit int) ([]*core.ChemicalRecord, error)

	// GetAll returns records in insertion order. A limit <= 0 returns all of them.
	GetAll(ctx context.Context, limit int) ([]*core.ChemicalRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Statistics summarizes the catalog by category and packaging group.
	Statistics(ctx context.Context) (*core.CatalogStats, error)
}

// DocumentRepository persists indexed documents and the fitted vectorizer.
// Documents are append-only; only Reset removes them.
type DocumentRepository interface {
	Repository

	// AppendDocuments stores documents with their vectors.
	// Every document receives a new Seq from the repository sequence.
	AppendDocuments(ctx context.Context, docs ...*core.IndexedDocument) ([]*core.IndexedDocument, error)

	// ForEachDocument calls fn for every stored document in append order.
	// Iteration stops at the first error returned by fn.
	ForEachDocument(ctx context.Context, fn func(doc *core.IndexedDocument) error) error

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// SaveVectorizerState replaces the persisted vectorizer state.
	SaveVectorizerState(ctx context.Context, state *core.VectorizerState) error

	// LoadVectorizerState returns the persisted vectorizer state.
	// Returns ErrNotFound if the vectorizer was never fitted.
	LoadVectorizerState(ctx context.Context) (*core.VectorizerState, error)
}
