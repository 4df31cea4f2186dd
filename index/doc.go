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


// Package index implements the semantic index over sparse TF-IDF vectors.
//
// An Index owns a vectorize.Encoder and a storage.DocumentRepository. The
// first AddDocuments call fits the encoder on its batch and persists the
// fitted state; later batches are only transformed against that vocabulary.
// Search encodes the query and ranks every stored document by inner product,
// which equals cosine similarity because all vectors are L2-normalized.
//
// # Concurrency
//
// Searches run concurrently under a read lock. AddDocuments and Reset take
// the write lock and are administrative operations.
//
// # Persistence
//
// Documents, vectors and the fitted encoder state live in the repository;
// Open restores all of them, so a process restart needs no refit.
package index
