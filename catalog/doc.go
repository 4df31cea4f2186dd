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


// Package catalog reads hazardous chemical catalog files.
//
// Catalogs arrive as CSV exports or XLSX workbooks whose header rows use
// the Chinese column names of the regulation tables, snake_case field
// names or English labels. Rows are decoded into core.ChemicalRecord
// values; rows without a usable UN number or name are logged and skipped.
package catalog
