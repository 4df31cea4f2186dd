package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint identifies a document by its origin, type and content.
// Two documents with identical (source, docType, content) share a fingerprint.
func Fingerprint(source Source, docType DocType, content string) ID {
	return IDFromContent(string(source) + "\x00" + string(docType) + "\x00" + content)
}

// DocType classifies indexed documents and search hits.
type DocType string

const (
	// DocTypeChemical marks documents derived from catalog records.
	DocTypeChemical DocType = "chemical"
	// DocTypeRegulation marks documents derived from the regulation corpus.
	DocTypeRegulation DocType = "regulation"
)

// Source tags the origin of an indexed document.
type Source string

const (
	// SourceCatalog is the structured chemical catalog.
	SourceCatalog Source = "catalog"
	// SourceRegulationCorpus is the imported regulatory text.
	SourceRegulationCorpus Source = "regulation-corpus"
)

// ChemicalRecord is one row of the hazardous chemicals catalog.
// Several records may share a UN number when they differ by packaging group.
type ChemicalRecord struct {
	Id                           ID
	UNNumber                     int
	ChineseName                  string
	EnglishName                  string
	Category                     string
	SecondaryHazard              string
	PackagingGroup               string
	SpecialProvisions            string // whitespace separated codes
	LimitedQuantity              string
	ExceptedQuantity             string
	PackagingInstruction         string
	PackagingSpecialProvision    string
	PortableTankInstruction      string
	PortableTankSpecialProvision string
}

// ProvisionCodes returns the purely numeric special provision codes.
func (c *ChemicalRecord) ProvisionCodes() []string {
	var codes []string
	for _, token := range strings.Fields(c.SpecialProvisions) {
		if isDigits(token) {
			codes = append(codes, token)
		}
	}
	return codes
}

// Key returns the deduplication key for the record.
// Packaging variants of the same UN number produce distinct keys.
func (c *ChemicalRecord) Key() string {
	return ChemicalKey(c.UNNumber, c.PackagingGroup)
}

// ChemicalKey builds the deduplication key for a (UN number, packaging group) pair.
func ChemicalKey(unNumber int, packagingGroup string) string {
	if packagingGroup == "" {
		packagingGroup = "None"
	}
	return fmt.Sprintf("un_%d_pkg_%s", unNumber, packagingGroup)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// SearchType records which search produced a hit.
type SearchType string

const (
	SearchTypeExactID     SearchType = "exact_id"
	SearchTypeExactName   SearchType = "exact_name"
	SearchTypeSemantic    SearchType = "semantic"
	SearchTypeAssociation SearchType = "association"
)

// DocumentMetadata describes an indexed document.
// Optional fields are zero when they do not apply to the document type.
type DocumentMetadata struct {
	ID             string
	Source         Source
	DocType        DocType
	UNNumber       int
	Name           string
	Category       string
	PackagingGroup string
	SectionID      int
	ChunkID        int
	SearchType     SearchType // set on search hits
}

// Document is a unit of text stored in the semantic index.
type Document struct {
	Content  string
	Metadata DocumentMetadata
}

// SparseVector is a sparse term-weight vector with ascending indices.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// Dot returns the inner product of two sparse vectors.
func (v SparseVector) Dot(other SparseVector) float32 {
	var sum float32
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// IsZero reports whether the vector has no non-zero components.
func (v SparseVector) IsZero() bool {
	return len(v.Indices) == 0
}

// IndexedDocument is the persisted form of a document and its vector.
type IndexedDocument struct {
	Seq      ID
	Document Document
	Vector   SparseVector
}

// VectorizerState is the fitted state of a TF-IDF vectorizer.
// Terms[i] owns feature index i and has inverse document frequency IDF[i].
type VectorizerState struct {
	Terms         []string
	IDF           []float32
	DocumentCount int
}

// SearchHit is a single retrieval result. Chemical is set only for
// hits produced from the structured catalog.
type SearchHit struct {
	Content  string
	Metadata DocumentMetadata
	Score    float64
	Chemical *ChemicalRecord
}

// RetrievalResult is the structured answer to a query.
type RetrievalResult struct {
	Query            string
	Chemicals        []SearchHit
	Regulations      []SearchHit
	TotalChemicals   int
	TotalRegulations int
}

// IsEmpty reports whether neither bucket holds a hit.
func (r *RetrievalResult) IsEmpty() bool {
	return len(r.Chemicals) == 0 && len(r.Regulations) == 0
}

// EmptyResult returns a result with no hits for the query.
func EmptyResult(query string) RetrievalResult {
	return RetrievalResult{
		Query:       query,
		Chemicals:   []SearchHit{},
		Regulations: []SearchHit{},
	}
}

// CatalogStats summarizes the chemical catalog.
type CatalogStats struct {
	TotalChemicals             int
	CategoryDistribution       map[string]int
	PackagingGroupDistribution map[string]int
}

// IndexStats summarizes the semantic index.
type IndexStats struct {
	TotalDocuments int
	Fitted         bool
	VocabularySize int
	DocTypes       map[DocType]int
	Sources        map[Source]int
}

// RetrievalSettings are the tuning values a retriever runs with.
type RetrievalSettings struct {
	RetrievalTopK       int
	SimilarityThreshold float64
	DefaultTopK         int
	CatalogBackend      string
}

// RetrievalStats aggregates catalog, index and settings for observability.
type RetrievalStats struct {
	Catalog  CatalogStats
	Index    IndexStats
	Settings RetrievalSettings
}
