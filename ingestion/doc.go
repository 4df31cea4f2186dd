// Package ingestion loads the chemical catalog and the regulation corpus
// into storage and the semantic index.
//
// The Pipeline type manages the import workflow:
//   - Validating catalog records and adding them to the chemical repository
//   - Building chemical index documents from the stored catalog
//   - Splitting appendix markdown into regulation chunks
//
// Document building runs on a worker pool. Invalid records are logged and
// skipped; they never fail an import.
package ingestion
