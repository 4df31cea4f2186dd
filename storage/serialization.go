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

package storage

import (
	"github.com/poiesic/hazmatrag/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalChemicalRecord serializes a ChemicalRecord to bytes.
func MarshalChemicalRecord(record *core.ChemicalRecord) []byte {
	buf := make([]byte, core.ChemicalRecordMUS.Size(*record))
	core.ChemicalRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalChemicalRecord deserializes a ChemicalRecord from bytes.
func UnmarshalChemicalRecord(data []byte) (*core.ChemicalRecord, error) {
	record, _, err := core.ChemicalRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalIndexedDocument serializes an IndexedDocument to bytes.
func MarshalIndexedDocument(doc *core.IndexedDocument) []byte {
	buf := make([]byte, core.IndexedDocumentMUS.Size(*doc))
	core.IndexedDocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalIndexedDocument deserializes an IndexedDocument from bytes.
func UnmarshalIndexedDocument(data []byte) (*core.IndexedDocument, error) {
	doc, _, err := core.IndexedDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalVectorizerState serializes a VectorizerState to bytes.
func MarshalVectorizerState(state *core.VectorizerState) []byte {
	buf := make([]byte, core.VectorizerStateMUS.Size(*state))
	core.VectorizerStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalVectorizerState deserializes a VectorizerState from bytes.
func UnmarshalVectorizerState(data []byte) (*core.VectorizerState, error) {
	state, _, err := core.VectorizerStateMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
