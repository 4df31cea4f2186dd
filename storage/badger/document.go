package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
// Documents are keyed by a big-endian sequence so iteration follows
// append order.
type DocumentRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	seq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the sequence.
func (r *DocumentRepository) Close() error {
	return r.seq.Release()
}

// AppendDocuments stores documents and assigns their sequence numbers.
func (r *DocumentRepository) AppendDocuments(ctx context.Context, docs ...*core.IndexedDocument) ([]*core.IndexedDocument, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			id, err := nextID(r.seq)
			if err != nil {
				return err
			}
			doc.Seq = core.ID(id)

			if err := tx.Set(makeDocumentKey(doc.Seq), storage.MarshalIndexedDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// ForEachDocument visits stored documents in append order.
func (r *DocumentRepository) ForEachDocument(ctx context.Context, fn func(doc *core.IndexedDocument) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(documentRecordPrefix), func(val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := storage.UnmarshalIndexedDocument(val)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			return fn(doc)
		})
	}, false)
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// SaveVectorizerState replaces the persisted vectorizer state.
func (r *DocumentRepository) SaveVectorizerState(ctx context.Context, state *core.VectorizerState) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(vectorizerStateKey), storage.MarshalVectorizerState(state)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadVectorizerState returns the persisted vectorizer state or storage.ErrNotFound.
func (r *DocumentRepository) LoadVectorizerState(ctx context.Context) (*core.VectorizerState, error) {
	var state *core.VectorizerState
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(vectorizerStateKey))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			state, err = storage.UnmarshalVectorizerState(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Reset removes all documents and the vectorizer state.
func (r *DocumentRepository) Reset(ctx context.Context) error {
	if err := r.backend.DropPrefix(documentRecordPrefix, vectorizerStateKey); err != nil {
		return fmt.Errorf("failed to reset document store: %w", err)
	}
	return nil
}
