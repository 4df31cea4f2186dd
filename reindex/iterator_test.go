package reindex

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/hazmatrag/core"
)

func TestCatalogIterator_Batches(t *testing.T) {
	chemicals, _ := setupCatalog(t, testRecords()...)
	it := NewCatalogIterator(chemicals, 2)

	var sizes []int
	var unNumbers []int
	err := it.ForEach(context.Background(), func(records []*core.ChemicalRecord) error {
		sizes = append(sizes, len(records))
		for _, rec := range records {
			unNumbers = append(unNumbers, rec.UNNumber)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []int{1133, 1133, 3480, 1203, 1090}, unNumbers)
}

func TestCatalogIterator_DefaultBatchSize(t *testing.T) {
	chemicals, _ := setupCatalog(t)
	it := NewCatalogIterator(chemicals, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)

	calls := 0
	err := it.ForEach(context.Background(), func([]*core.ChemicalRecord) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls, "empty catalog yields no batches")
}

func TestCatalogIterator_StopsOnError(t *testing.T) {
	chemicals, _ := setupCatalog(t, testRecords()...)
	it := NewCatalogIterator(chemicals, 1)
	stop := errors.New("stop")

	calls := 0
	err := it.ForEach(context.Background(), func([]*core.ChemicalRecord) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, calls)
}

func TestCatalogIterator_Cancelled(t *testing.T) {
	chemicals, _ := setupCatalog(t, testRecords()...)
	it := NewCatalogIterator(chemicals, 1)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := it.ForEach(ctx, func([]*core.ChemicalRecord) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
