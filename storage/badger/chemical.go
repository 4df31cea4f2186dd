package badger

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/storage"
)

// ChemicalRepository implements storage.ChemicalRepository for BadgerDB.
// Records live under chemicalRecordPrefix; a secondary index maps
// UN numbers to record IDs.
type ChemicalRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChemicalRepository = (*ChemicalRepository)(nil)

// NewChemicalRepository creates a new ChemicalRepository.
func NewChemicalRepository(backend *Backend) (*ChemicalRepository, error) {
	idSeq, err := backend.GetSequence(chemicalIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChemicalRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChemicalRepository) Close() error {
	return r.idSeq.Release()
}

// AddChemicals stores catalog records and assigns their IDs.
func (r *ChemicalRepository) AddChemicals(ctx context.Context, records ...*core.ChemicalRecord) ([]*core.ChemicalRecord, error) {
	for _, record := range records {
		if err := core.ValidateChemicalRecord(record); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			id, err := nextID(r.idSeq)
			if err != nil {
				return err
			}
			record.Id = core.ID(id)

			if err := tx.Set(makeChemicalKey(record.Id), storage.MarshalChemicalRecord(record)); err != nil {
				return err
			}

			// Update UN number index
			unKey := makeChemicalUNKey(record.UNNumber, record.Id)
			if err := tx.Set(unKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetByUNNumber returns every record carrying the UN number.
func (r *ChemicalRepository) GetByUNNumber(ctx context.Context, unNumber int) ([]*core.ChemicalRecord, error) {
	results := []*core.ChemicalRecord{}
	if unNumber <= 0 {
		return results, nil
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var ids []core.ID
		err := scanPrefix(tx, makePartialChemicalUNKey(unNumber), func(val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		})
		if err != nil {
			return err
		}

		for _, id := range ids {
			record, err := r.readChemical(tx, makeChemicalKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SearchByName returns up to limit records whose Chinese name contains substr.
func (r *ChemicalRepository) SearchByName(ctx context.Context, substr string, limit int) ([]*core.ChemicalRecord, error) {
	results := []*core.ChemicalRecord{}
	if limit <= 0 {
		return results, nil
	}

	err := r.scanChemicals(ctx, func(record *core.ChemicalRecord) bool {
		if strings.Contains(record.ChineseName, substr) {
			results = append(results, record)
		}
		return len(results) < limit
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetAll returns records in ID order, at most limit when limit > 0.
func (r *ChemicalRepository) GetAll(ctx context.Context, limit int) ([]*core.ChemicalRecord, error) {
	results := []*core.ChemicalRecord{}
	err := r.scanChemicals(ctx, func(record *core.ChemicalRecord) bool {
		results = append(results, record)
		return limit <= 0 || len(results) < limit
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of stored records.
func (r *ChemicalRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chemicalRecordPrefix)
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

// Statistics counts records per category and per packaging group.
// Records with an empty value are counted under "None".
func (r *ChemicalRepository) Statistics(ctx context.Context) (*core.CatalogStats, error) {
	stats := &core.CatalogStats{
		CategoryDistribution:       make(map[string]int),
		PackagingGroupDistribution: make(map[string]int),
	}

	err := r.scanChemicals(ctx, func(record *core.ChemicalRecord) bool {
		stats.TotalChemicals++
		stats.CategoryDistribution[orNone(record.Category)]++
		stats.PackagingGroupDistribution[orNone(record.PackagingGroup)]++
		return true
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Reset removes all records and the UN number index.
func (r *ChemicalRepository) Reset(ctx context.Context) error {
	if err := r.backend.DropPrefix(chemicalRecordPrefix, chemicalUNIndexPrefix); err != nil {
		return fmt.Errorf("failed to reset chemical catalog: %w", err)
	}
	return nil
}

// scanChemicals visits records in ID order until fn returns false.
func (r *ChemicalRepository) scanChemicals(ctx context.Context, fn func(record *core.ChemicalRecord) bool) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(chemicalRecordPrefix), func(val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := storage.UnmarshalChemicalRecord(val)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			if !fn(record) {
				return errStopScan
			}
			return nil
		})
	}, false)
}

// readChemical reads a record from a transaction. Returns nil if not found.
func (r *ChemicalRepository) readChemical(tx *badger.Txn, key []byte) (*core.ChemicalRecord, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.ChemicalRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalChemicalRecord(val)
		return err
	})
	return record, err
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "None"
	}
	return value
}
