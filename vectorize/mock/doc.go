// Package mock provides a test double for vectorize.Encoder.
//
// MockEncoder needs no fitting corpus to be useful: its default behavior
// hashes whitespace separated words into a small fixed number of buckets,
// so identical texts always produce identical unit vectors. Tests that need
// failures or specific vectors inject them through the function fields.
//
//	enc := mock.NewMockEncoder()
//	enc.EncodeFunc = func(ctx context.Context, texts []string) ([]core.SparseVector, error) {
//	    return nil, errors.New("boom")
//	}
package mock
