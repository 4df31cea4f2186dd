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

import "errors"

var (
	// ErrNotFitted indicates the encoder has no vocabulary yet.
	ErrNotFitted = errors.New("vectorizer is not fitted")

	// ErrAlreadyFitted indicates an attempt to refit without a reset.
	ErrAlreadyFitted = errors.New("vectorizer is already fitted")

	// ErrEmptyVocabulary indicates the fit corpus produced no terms.
	ErrEmptyVocabulary = errors.New("empty vocabulary")

	// ErrInvalidState indicates persisted state that cannot be loaded.
	ErrInvalidState = errors.New("invalid vectorizer state")

	// ErrInvalidConfig indicates an unusable vectorizer configuration.
	ErrInvalidConfig = errors.New("invalid vectorizer config")
)
