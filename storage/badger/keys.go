package badger

import (
	"encoding/binary"

	"github.com/poiesic/hazmatrag/core"
)

// Key prefixes for different data types. Record prefixes end with a
// separator so that they never match the sequence keys.
const (
	chemicalRecordPrefix  = "chemrec:"
	chemicalUNIndexPrefix = "chemun:"
	chemicalIDSeq         = "chemrecseq"
	documentRecordPrefix  = "docrec:"
	documentIDSeq         = "docrecseq"
	vectorizerStateKey    = "vecstate"
)

// makeKey appends big-endian uint64 parts to prefix so that
// lexicographic order follows numeric order.
func makeKey(prefix string, parts ...uint64) []byte {
	buf := make([]byte, len(prefix)+8*len(parts))
	offset := copy(buf, prefix)
	for _, part := range parts {
		binary.BigEndian.PutUint64(buf[offset:], part)
		offset += 8
	}
	return buf
}

// makeChemicalKey generates a key for a chemical record by ID.
func makeChemicalKey(id core.ID) []byte {
	return makeKey(chemicalRecordPrefix, uint64(id))
}

// makeChemicalUNKey generates a composite key for the UN number index.
// Format: prefix:unNumber:id
func makeChemicalUNKey(unNumber int, id core.ID) []byte {
	return makeKey(chemicalUNIndexPrefix, uint64(unNumber), uint64(id))
}

// makePartialChemicalUNKey generates a partial key for UN number lookups.
// Format: prefix:unNumber
func makePartialChemicalUNKey(unNumber int) []byte {
	return makeKey(chemicalUNIndexPrefix, uint64(unNumber))
}

// makeDocumentKey generates a key for an indexed document by sequence.
func makeDocumentKey(seq core.ID) []byte {
	return makeKey(documentRecordPrefix, uint64(seq))
}
