package search

import (
	"context"
	"fmt"

	"github.com/poiesic/hazmatrag/core"
)

const (
	maxAssociated       = 3
	provisionSearchK    = 5
	unNumberSearchK     = 3
	keywordSearchK      = 3
	maxKeywordTerms     = 3
	categorySearchK     = 2
	maxCategorySearches = 2
)

// associator collects regulation passages for one call, deduplicated by id.
type associator struct {
	r       *Retriever
	ctx     context.Context
	seen    map[string]bool
	related []core.SearchHit
}

// collect runs a semantic search for term and keeps new regulation-corpus
// hits. It reports whether anything was added.
func (a *associator) collect(term string, topK int) bool {
	hits, err := a.r.semanticHits(a.ctx, term, topK)
	if err != nil {
		a.r.logger.Debug("association search failed", "term", term, "err", err)
		return false
	}
	added := false
	for _, hit := range hits {
		if hit.Metadata.Source != core.SourceRegulationCorpus {
			continue
		}
		key := hitKey(&hit)
		if a.seen[key] {
			continue
		}
		a.seen[key] = true
		hit.Metadata.SearchType = core.SearchTypeAssociation
		a.related = append(a.related, hit)
		added = true
	}
	return added
}

// associateRegulations links matched chemicals to regulation passages.
//
// Tiers escalate from special provision codes to the UN number, then to
// name keywords, and finally to hazard categories. Once any tier finds a
// passage for any chemical, the name and category tiers are skipped for the
// rest of the call; provision searches still run for every chemical.
func (r *Retriever) associateRegulations(ctx context.Context, chemicals []core.SearchHit) []core.SearchHit {
	a := &associator{r: r, ctx: ctx, seen: make(map[string]bool)}
	found := false

	for _, hit := range chemicals {
		rec := hit.Chemical
		if rec == nil {
			continue
		}

		for _, code := range rec.ProvisionCodes() {
			if a.collect(code, provisionSearchK) {
				found = true
			}
		}
		if found {
			continue
		}

		if rec.UNNumber > 0 && a.collect(fmt.Sprint(rec.UNNumber), unNumberSearchK) {
			found = true
		}

		if !found {
			terms := nameKeywords(rec.ChineseName, rec.EnglishName)
			if len(terms) > maxKeywordTerms {
				terms = terms[:maxKeywordTerms]
			}
			for _, term := range terms {
				if a.collect(term, keywordSearchK) {
					found = true
				}
			}
		}
	}

	if !found {
		for _, category := range categories(chemicals, maxCategorySearches) {
			for _, term := range []string{"第" + category + "类", "类别" + category} {
				a.collect(term, categorySearchK)
			}
		}
	}

	sortByScore(a.related)
	return truncate(a.related, maxAssociated)
}

// categories returns up to n distinct hazard categories in first-seen order.
func categories(chemicals []core.SearchHit, n int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, hit := range chemicals {
		if hit.Chemical == nil || hit.Chemical.Category == "" || seen[hit.Chemical.Category] {
			continue
		}
		seen[hit.Chemical.Category] = true
		out = append(out, hit.Chemical.Category)
		if len(out) == n {
			break
		}
	}
	return out
}
