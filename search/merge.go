package search

import (
	"fmt"
	"slices"

	"github.com/poiesic/hazmatrag/core"
)

// MergeHits combines hit lists, keeping the highest scoring hit per key,
// and returns the survivors sorted by descending score. Ties keep the order
// in which keys were first seen.
//
// Chemical hits are keyed on (UN number, packaging group) so packaging
// variants never collapse. Other hits are keyed on their stored id, or on a
// fingerprint of (source, doc type, content) when they have none.
func MergeHits(lists ...[]core.SearchHit) []core.SearchHit {
	positions := make(map[string]int)
	merged := make([]core.SearchHit, 0)
	for _, hits := range lists {
		for _, hit := range hits {
			key := hitKey(&hit)
			if pos, ok := positions[key]; ok {
				if hit.Score > merged[pos].Score {
					merged[pos] = hit
				}
				continue
			}
			positions[key] = len(merged)
			merged = append(merged, hit)
		}
	}
	sortByScore(merged)
	return merged
}

func hitKey(hit *core.SearchHit) string {
	if hit.Chemical != nil {
		return hit.Chemical.Key()
	}
	meta := &hit.Metadata
	if meta.DocType == core.DocTypeChemical && meta.UNNumber > 0 {
		return core.ChemicalKey(meta.UNNumber, meta.PackagingGroup)
	}
	if meta.ID != "" {
		return "id:" + meta.ID
	}
	return fmt.Sprintf("fp:%d", core.Fingerprint(meta.Source, meta.DocType, hit.Content))
}

// sortByScore orders hits by descending score, stable on ties.
func sortByScore(hits []core.SearchHit) {
	slices.SortStableFunc(hits, func(a, b core.SearchHit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
}

func truncate(hits []core.SearchHit, n int) []core.SearchHit {
	if n >= 0 && len(hits) > n {
		return hits[:n]
	}
	return hits
}
