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


package tfidf

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/vectorize"
)

// Vectorizer is a TF-IDF encoder.
//
// Weights are raw term counts times a smoothed inverse document frequency,
// idf(t) = ln((1+n) / (1+df(t))) + 1, and each vector is L2-normalized.
// The vocabulary keeps the MaxFeatures terms with the highest corpus
// frequency; feature indices follow the alphabetical order of the terms.
type Vectorizer struct {
	mu        sync.RWMutex
	cfg       *vectorize.Config
	tokenizer vectorize.Tokenizer

	vocab    map[string]uint32
	terms    []string
	idf      []float32
	docCount int
}

var _ vectorize.Encoder = (*Vectorizer)(nil)

// Option configures a Vectorizer.
type Option func(*Vectorizer) error

// WithConfig sets the vectorizer configuration.
func WithConfig(cfg *vectorize.Config) Option {
	return func(v *Vectorizer) error {
		if cfg == nil {
			return fmt.Errorf("%w: config is nil", vectorize.ErrInvalidConfig)
		}
		v.cfg = cfg
		return nil
	}
}

// WithTokenizer replaces the default CJK bigram tokenizer.
func WithTokenizer(tokenizer vectorize.Tokenizer) Option {
	return func(v *Vectorizer) error {
		v.tokenizer = tokenizer
		return nil
	}
}

// New creates an unfitted vectorizer.
func New(opts ...Option) (*Vectorizer, error) {
	v := &Vectorizer{cfg: vectorize.DefaultConfig()}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	if err := v.cfg.Validate(); err != nil {
		return nil, err
	}
	if v.tokenizer == nil {
		v.tokenizer = NewTokenizer(v.cfg)
	}
	return v, nil
}

// Fit implements vectorize.Encoder.
func (v *Vectorizer) Fit(ctx context.Context, texts []string) ([]core.SparseVector, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.vocab != nil {
		return nil, vectorize.ErrAlreadyFitted
	}

	tokenized := make([][]string, len(texts))
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens := v.tokenizer.Tokenize(text)
		tokenized[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			termFreq[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}
	if len(docFreq) == 0 {
		return nil, vectorize.ErrEmptyVocabulary
	}

	terms := selectFeatures(termFreq, v.cfg.MaxFeatures)
	n := float64(len(texts))
	idf := make([]float32, len(terms))
	for i, term := range terms {
		idf[i] = float32(math.Log((1+n)/(1+float64(docFreq[term]))) + 1)
	}
	v.install(terms, idf, len(texts))

	vectors := make([]core.SparseVector, len(tokenized))
	for i, tokens := range tokenized {
		vectors[i] = v.vectorize(tokens)
	}
	return vectors, nil
}

// selectFeatures returns the limit most frequent terms in alphabetical order.
// Ties on frequency are broken alphabetically.
func selectFeatures(termFreq map[string]int, limit int) []string {
	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	slices.SortFunc(terms, func(a, b string) int {
		if c := cmp.Compare(termFreq[b], termFreq[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	sort.Strings(terms)
	return terms
}

// install replaces the fitted state. Caller holds the write lock.
func (v *Vectorizer) install(terms []string, idf []float32, docCount int) {
	vocab := make(map[string]uint32, len(terms))
	for i, term := range terms {
		vocab[term] = uint32(i)
	}
	v.vocab = vocab
	v.terms = terms
	v.idf = idf
	v.docCount = docCount
}

// vectorize weights tokens against the fitted vocabulary. Caller holds a lock.
func (v *Vectorizer) vectorize(tokens []string) core.SparseVector {
	counts := make(map[uint32]int)
	for _, tok := range tokens {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return core.SparseVector{}
	}

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	weights := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		w := float64(counts[idx]) * float64(v.idf[idx])
		weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	values := make([]float32, len(indices))
	for i, w := range weights {
		values[i] = float32(w / norm)
	}
	return core.SparseVector{Indices: indices, Values: values}
}

// Encode implements vectorize.Encoder.
func (v *Vectorizer) Encode(ctx context.Context, texts []string) ([]core.SparseVector, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.vocab == nil {
		return nil, vectorize.ErrNotFitted
	}
	vectors := make([]core.SparseVector, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = v.vectorize(v.tokenizer.Tokenize(text))
	}
	return vectors, nil
}

// EncodeText implements vectorize.Encoder.
func (v *Vectorizer) EncodeText(ctx context.Context, text string) (core.SparseVector, error) {
	vectors, err := v.Encode(ctx, []string{text})
	if err != nil {
		return core.SparseVector{}, err
	}
	return vectors[0], nil
}

// IsFitted implements vectorize.Encoder.
func (v *Vectorizer) IsFitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vocab != nil
}

// VocabularySize implements vectorize.Encoder.
func (v *Vectorizer) VocabularySize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.terms)
}

// State implements vectorize.Encoder.
func (v *Vectorizer) State() (*core.VectorizerState, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.vocab == nil {
		return nil, vectorize.ErrNotFitted
	}
	return &core.VectorizerState{
		Terms:         slices.Clone(v.terms),
		IDF:           slices.Clone(v.idf),
		DocumentCount: v.docCount,
	}, nil
}

// Load implements vectorize.Encoder.
func (v *Vectorizer) Load(state *core.VectorizerState) error {
	if state == nil || len(state.Terms) == 0 {
		return fmt.Errorf("%w: no terms", vectorize.ErrInvalidState)
	}
	if len(state.Terms) != len(state.IDF) {
		return fmt.Errorf("%w: %d terms but %d idf weights",
			vectorize.ErrInvalidState, len(state.Terms), len(state.IDF))
	}
	for i := 1; i < len(state.Terms); i++ {
		if state.Terms[i-1] >= state.Terms[i] {
			return fmt.Errorf("%w: terms not sorted at %d", vectorize.ErrInvalidState, i)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.install(slices.Clone(state.Terms), slices.Clone(state.IDF), state.DocumentCount)
	return nil
}

// Reset implements vectorize.Encoder.
func (v *Vectorizer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vocab = nil
	v.terms = nil
	v.idf = nil
	v.docCount = 0
}
