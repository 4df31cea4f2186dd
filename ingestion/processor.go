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


package ingestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/hazmatrag/core"
)

// processor is an internal interface for turning source items into index documents.
// Implementations handle one kind of input such as catalog records or appendix sections.
type processor[T any] interface {
	// process builds the documents for items, preserving their order.
	process(ctx context.Context, items ...T) ([]core.Document, error)
}

// fanOut splits items into batches, runs proc on each batch in pool and
// concatenates the documents in batch order. The first error wins.
func fanOut[T any](ctx context.Context, pool *ants.Pool, proc processor[T], items []T, batchSize int) ([]core.Document, error) {
	if len(items) == 0 {
		return nil, nil
	}

	batches := (len(items) + batchSize - 1) / batchSize
	results := make([][]core.Document, batches)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			setErr(err)
			break
		}
		start := b * batchSize
		end := min(start+batchSize, len(items))

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			docs, err := proc.process(ctx, items[start:end]...)
			if err != nil {
				setErr(fmt.Errorf("batch %d: %w", b, err))
				return
			}
			results[b] = docs
		})
		if err != nil {
			wg.Done()
			setErr(fmt.Errorf("failed to submit batch %d: %w", b, err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	var docs []core.Document
	for _, batch := range results {
		docs = append(docs, batch...)
	}
	return docs, nil
}
