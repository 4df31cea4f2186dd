package search

import (
	"fmt"
	"io"
	"sync"

	"github.com/poiesic/hazmatrag/core"
)

// Monitor provides hooks to observe the retrieval process.
// Hybrid search runs its sub-searches concurrently, so implementations
// must be safe for concurrent use.
type Monitor interface {
	Start(query string, strategy core.Strategy, topK int)
	Classified(queryType core.QueryType)
	AfterExactSearch(unNumbers []int, hits []core.SearchHit)
	AfterSemanticSearch(hits []core.SearchHit)
	AfterMerge(hits []core.SearchHit)
	AfterAssociation(regulations []core.SearchHit)
	FallbackNames(names []string)
	Finish(result *core.RetrievalResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ core.Strategy, _ int)       {}
func (n *noopMonitor) Classified(_ core.QueryType)                  {}
func (n *noopMonitor) AfterExactSearch(_ []int, _ []core.SearchHit) {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.SearchHit)       {}
func (n *noopMonitor) AfterMerge(_ []core.SearchHit)                {}
func (n *noopMonitor) AfterAssociation(_ []core.SearchHit)          {}
func (n *noopMonitor) FallbackNames(_ []string)                     {}
func (n *noopMonitor) Finish(_ *core.RetrievalResult)               {}

// VerboseMonitor prints each retrieval step as a numbered line.
type VerboseMonitor struct {
	mu   sync.Mutex
	w    io.Writer
	step int
}

var _ Monitor = (*VerboseMonitor)(nil)

// NewVerboseMonitor creates a monitor that writes the query flow to w.
func NewVerboseMonitor(w io.Writer) *VerboseMonitor {
	return &VerboseMonitor{w: w}
}

func (v *VerboseMonitor) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.step++
	fmt.Fprintf(v.w, "%d. "+format+"\n", append([]any{v.step}, args...)...)
}

func (v *VerboseMonitor) Start(query string, strategy core.Strategy, topK int) {
	v.mu.Lock()
	v.step = 0
	fmt.Fprintf(v.w, "Query flow:\n")
	v.mu.Unlock()
	v.printf("input %q, strategy %s, top_k %d", query, strategy, topK)
}

func (v *VerboseMonitor) Classified(queryType core.QueryType) {
	v.printf("query classified as %s", queryType)
}

func (v *VerboseMonitor) AfterExactSearch(unNumbers []int, hits []core.SearchHit) {
	if len(unNumbers) > 0 {
		v.printf("catalog lookup by UN number %v returned %d records", unNumbers, len(hits))
		return
	}
	v.printf("catalog lookup by name returned %d records", len(hits))
}

func (v *VerboseMonitor) AfterSemanticSearch(hits []core.SearchHit) {
	v.printf("semantic search returned %d passages above threshold", len(hits))
}

func (v *VerboseMonitor) AfterMerge(hits []core.SearchHit) {
	v.printf("merged catalog and semantic results into %d hits", len(hits))
}

func (v *VerboseMonitor) AfterAssociation(regulations []core.SearchHit) {
	v.printf("linked %d regulation passages to matched chemicals", len(regulations))
}

func (v *VerboseMonitor) FallbackNames(names []string) {
	v.printf("no direct results, retrying with extracted names %q", names)
}

func (v *VerboseMonitor) Finish(result *core.RetrievalResult) {
	v.printf("done: %d chemicals, %d regulations", result.TotalChemicals, result.TotalRegulations)
}
