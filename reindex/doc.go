// Package reindex rebuilds the semantic index from the chemical catalog and
// the regulation corpus.
//
// A rebuild resets the index, adds every catalog document in a single
// fitting batch and then streams regulation chunks in batches. Index writes
// are retried with exponential backoff and progress is reported as batches
// complete.
package reindex
