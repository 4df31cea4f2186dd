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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChemicalRecord indicates a ChemicalRecord failed validation.
	ErrInvalidChemicalRecord = errors.New("invalid chemical record")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidUNNumber indicates a missing or non-positive UN number.
	ErrInvalidUNNumber = errors.New("UN number must be a positive integer")

	// ErrEmptyName indicates the primary name field is empty.
	ErrEmptyName = errors.New("chemical name cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidDocType indicates an unknown DocType value.
	ErrInvalidDocType = errors.New("invalid document type")

	// ErrInvalidSource indicates an unknown Source value.
	ErrInvalidSource = errors.New("invalid document source")

	// ErrInvalidStrategy indicates an unknown retrieval strategy.
	ErrInvalidStrategy = errors.New("invalid retrieval strategy")
)
