// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/storage"
)

// DefaultBatchSize is the default number of items handled per batch.
const DefaultBatchSize = 100

// CatalogIterator walks the chemical catalog in batches.
type CatalogIterator struct {
	repo      storage.ChemicalRepository
	batchSize int
}

// NewCatalogIterator creates a new catalog iterator.
// A batchSize <= 0 selects DefaultBatchSize.
func NewCatalogIterator(repo storage.ChemicalRepository, batchSize int) *CatalogIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &CatalogIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with consecutive batches of records in catalog order.
// Iteration stops on the first error from fn. Context cancellation is
// checked between batches.
func (it *CatalogIterator) ForEach(ctx context.Context, fn func([]*core.ChemicalRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := it.repo.GetAll(ctx, 0)
	if err != nil {
		return err
	}

	for start := 0; start < len(records); start += it.batchSize {
		end := min(start+it.batchSize, len(records))
		if err := fn(records[start:end]); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
