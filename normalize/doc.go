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


// Package normalize converts catalog records and regulation markdown into
// the text documents stored in the semantic index.
//
// Catalog records produce two renderings: a compact " | "-joined document
// used for vectorization, and a labelled multi-line rendering used as the
// display content of catalog hits. Regulation markdown is reduced to plain
// text, split into sections at numbered and "#" headings, and chunked with
// overlap by a recursive character splitter.
package normalize
