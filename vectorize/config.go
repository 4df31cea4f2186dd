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


package vectorize

import "fmt"

// DefaultStopWords are function words dropped from the vocabulary.
var DefaultStopWords = []string{"的", "是", "在", "有", "和", "或", "等", "及"}

// Config holds configuration for sparse encoders.
type Config struct {
	// MaxFeatures caps the vocabulary to the most frequent terms.
	// Default: 5000
	MaxFeatures int

	// MinTokenRunes drops shorter tokens.
	// Default: 2
	MinTokenRunes int

	// StopWords are removed after tokenization.
	StopWords []string

	// Lowercase folds ASCII letters before counting.
	// Default: true
	Lowercase bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxFeatures sets the vocabulary cap.
func WithMaxFeatures(n int) ConfigOption {
	return func(c *Config) {
		c.MaxFeatures = n
	}
}

// WithMinTokenRunes sets the minimum token length.
func WithMinTokenRunes(n int) ConfigOption {
	return func(c *Config) {
		c.MinTokenRunes = n
	}
}

// WithStopWords replaces the stop word list.
func WithStopWords(words ...string) ConfigOption {
	return func(c *Config) {
		c.StopWords = words
	}
}

// WithLowercase toggles case folding.
func WithLowercase(lowercase bool) ConfigOption {
	return func(c *Config) {
		c.Lowercase = lowercase
	}
}

// DefaultConfig returns the settings the index is built with by default.
func DefaultConfig() *Config {
	return &Config{
		MaxFeatures:   5000,
		MinTokenRunes: 2,
		StopWords:     DefaultStopWords,
		Lowercase:     true,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("%w: MaxFeatures must be positive", ErrInvalidConfig)
	}
	if c.MinTokenRunes < 1 {
		return fmt.Errorf("%w: MinTokenRunes must be at least 1", ErrInvalidConfig)
	}
	return nil
}
