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


// Package storage provides the storage abstraction layer for hazmatrag.
//
// This package defines repository interfaces that decouple storage implementation
// from retrieval logic. Two backends implement the chemical catalog: BadgerDB
// (storage/badger, the default embedded store) and SQLite (storage/sqlite, a
// relational catalog with the original column layout). Indexed documents and
// the fitted vectorizer state are persisted by the BadgerDB backend.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: Reset and Close shared by every repository
//   - ChemicalRepository: catalog records keyed by UN number and searchable by name
//   - DocumentRepository: append-only indexed documents plus vectorizer state
//
// # Usage
//
// Open a backend and build repositories on it:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	chemicals, err := badger.NewChemicalRepository(backend)
//
// Use in tests with in-memory storage:
//
//	chemicals, documents, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
