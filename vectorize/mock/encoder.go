package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/vectorize"
)

// DefaultBuckets is the dimension of the hashed vectors.
const DefaultBuckets = 64

// MockEncoder is a test double for vectorize.Encoder.
// It allows custom behavior injection via function fields.
type MockEncoder struct {
	// FitFunc is called by Fit if set.
	FitFunc func(ctx context.Context, texts []string) ([]core.SparseVector, error)

	// EncodeFunc is called by Encode and EncodeText if set.
	EncodeFunc func(ctx context.Context, texts []string) ([]core.SparseVector, error)

	mu        sync.Mutex
	fitted    bool
	callCount atomic.Int64
}

var _ vectorize.Encoder = (*MockEncoder)(nil)

// NewMockEncoder creates a mock encoder with default deterministic behavior.
func NewMockEncoder() *MockEncoder {
	return &MockEncoder{}
}

// Fit marks the encoder fitted and returns hashed vectors.
func (m *MockEncoder) Fit(ctx context.Context, texts []string) ([]core.SparseVector, error) {
	m.callCount.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fitted {
		return nil, vectorize.ErrAlreadyFitted
	}

	var (
		vectors []core.SparseVector
		err     error
	)
	if m.FitFunc != nil {
		vectors, err = m.FitFunc(ctx, texts)
	} else {
		vectors = hashVectors(texts)
	}
	if err != nil {
		return nil, err
	}
	m.fitted = true
	return vectors, nil
}

// Encode returns hashed vectors, or ErrNotFitted before Fit.
func (m *MockEncoder) Encode(ctx context.Context, texts []string) ([]core.SparseVector, error) {
	m.callCount.Add(1)

	if !m.IsFitted() {
		return nil, vectorize.ErrNotFitted
	}
	if m.EncodeFunc != nil {
		return m.EncodeFunc(ctx, texts)
	}
	return hashVectors(texts), nil
}

// EncodeText encodes a single text.
func (m *MockEncoder) EncodeText(ctx context.Context, text string) (core.SparseVector, error) {
	vectors, err := m.Encode(ctx, []string{text})
	if err != nil {
		return core.SparseVector{}, err
	}
	if len(vectors) == 0 {
		return core.SparseVector{}, nil
	}
	return vectors[0], nil
}

func (m *MockEncoder) IsFitted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fitted
}

func (m *MockEncoder) VocabularySize() int {
	if !m.IsFitted() {
		return 0
	}
	return DefaultBuckets
}

// State returns one synthetic term per bucket.
func (m *MockEncoder) State() (*core.VectorizerState, error) {
	if !m.IsFitted() {
		return nil, vectorize.ErrNotFitted
	}
	state := &core.VectorizerState{
		Terms: make([]string, DefaultBuckets),
		IDF:   make([]float32, DefaultBuckets),
	}
	for i := range state.Terms {
		state.Terms[i] = fmt.Sprintf("bucket%03d", i)
		state.IDF[i] = 1
	}
	return state, nil
}

// Load marks the encoder fitted regardless of the state's contents.
func (m *MockEncoder) Load(state *core.VectorizerState) error {
	if state == nil {
		return vectorize.ErrInvalidState
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fitted = true
	return nil
}

func (m *MockEncoder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fitted = false
}

// CallCount returns the number of Fit and Encode calls.
func (m *MockEncoder) CallCount() int {
	return int(m.callCount.Load())
}

func hashVectors(texts []string) []core.SparseVector {
	vectors := make([]core.SparseVector, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors
}

// hashVector buckets lowercased words with FNV and L2-normalizes the counts.
func hashVector(text string) core.SparseVector {
	counts := make(map[uint32]float64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		counts[h.Sum32()%DefaultBuckets]++
	}
	if len(counts) == 0 {
		return core.SparseVector{}
	}

	indices := make([]uint32, 0, len(counts))
	var norm float64
	for idx, c := range counts {
		indices = append(indices, idx)
		norm += c * c
	}
	slices.Sort(indices)
	norm = math.Sqrt(norm)

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = float32(counts[idx] / norm)
	}
	return core.SparseVector{Indices: indices, Values: values}
}
