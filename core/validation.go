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

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateChemicalRecord validates a ChemicalRecord according to domain rules.
//
// Validation rules:
//   - UNNumber must be positive
//   - ChineseName must not be blank
//
// NOT validated (optional catalog columns):
//   - every other field may be empty
//   - Id (0 is valid before the store assigns one)
func ValidateChemicalRecord(record *ChemicalRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChemicalRecord)
	}

	if record.UNNumber <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChemicalRecord, ErrInvalidUNNumber)
	}

	if strings.TrimSpace(record.ChineseName) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChemicalRecord, ErrEmptyName)
	}

	return nil
}

// ValidateDocument validates a Document before it is indexed.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if err := ValidateDocType(doc.Metadata.DocType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := ValidateSource(doc.Metadata.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateDocType validates that a DocType has a known value.
func ValidateDocType(docType DocType) error {
	if docType != DocTypeChemical && docType != DocTypeRegulation {
		return fmt.Errorf("%w: %q", ErrInvalidDocType, docType)
	}
	return nil
}

// ValidateSource validates that a Source has a known value.
func ValidateSource(source Source) error {
	if source != SourceCatalog && source != SourceRegulationCorpus {
		return fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}
	return nil
}

// ParseUNNumber converts a raw catalog cell into a UN number.
// Placeholders such as "-" and non-numeric values are rejected.
func ParseUNNumber(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(strings.ToUpper(value), "UN")
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return 0, ErrInvalidUNNumber
	}
	// Spreadsheet exports sometimes render integers as floats.
	value = strings.TrimSuffix(value, ".0")
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUNNumber, raw)
	}
	return n, nil
}
