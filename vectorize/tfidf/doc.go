// Package tfidf implements vectorize.Encoder with classic TF-IDF weighting.
//
// The tokenizer needs no dictionary: Han text is indexed as overlapping
// character bigrams, which gives useful recall on regulatory Chinese without
// a segmentation model, and Latin words and numbers are kept whole so UN
// numbers and special provision codes remain searchable terms.
package tfidf
