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


// Package vectorize defines the contracts for turning text into sparse
// term-weight vectors.
//
// The package provides interfaces for tokenizers and encoders, plus shared
// configuration. Concrete implementations live in subpackages:
//
//   - tfidf: TF-IDF encoder with a CJK-aware tokenizer (production)
//   - mock: deterministic test doubles
//
// An Encoder is fitted once on the first batch of documents. Every later
// batch and every query is encoded against that fixed vocabulary; changing
// the vocabulary requires Reset followed by a full rebuild of the index.
//
// All vectors returned by an Encoder are L2-normalized, so the inner
// product of two vectors is their cosine similarity.
package vectorize
