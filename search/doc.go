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


// Package search implements hybrid retrieval over the chemical catalog and
// the semantic index.
//
// The Retriever dispatches a query to one of four strategies:
//   - exact: UN number lookups, then name substring matches with term expansion
//   - semantic: TF-IDF nearest neighbours above a similarity threshold
//   - hybrid: exact and semantic run concurrently, merged
//   - auto: classifies the query and picks one of the above
//
// Hits are merged with a max-score-wins rule keyed on (UN number, packaging
// group) for chemicals and on the stored document id otherwise. Chemical hits
// are then linked to regulation passages through an escalating association
// search, and queries that find nothing fall back to extracting a bare
// substance name from request phrasing.
//
// Retrieve never fails: sub-search errors are logged and treated as empty,
// and a panic anywhere in the pipeline yields an empty result.
package search
