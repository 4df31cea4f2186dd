package search

import (
	"context"

	"github.com/poiesic/hazmatrag/core"
)

// assemble partitions hits by document type, links regulations to the
// chemical hits and packages the result.
func (r *Retriever) assemble(ctx context.Context, query string, hits []core.SearchHit, monitor Monitor) core.RetrievalResult {
	result := core.EmptyResult(query)

	var regulations []core.SearchHit
	for _, hit := range hits {
		switch hit.Metadata.DocType {
		case core.DocTypeChemical:
			result.Chemicals = append(result.Chemicals, hit)
		case core.DocTypeRegulation:
			regulations = append(regulations, hit)
		default:
			r.logger.Warn("dropping hit with unknown document type", "id", hit.Metadata.ID, "docType", hit.Metadata.DocType)
		}
	}

	related := r.associateRegulations(ctx, result.Chemicals)
	monitor.AfterAssociation(related)

	result.Regulations = MergeHits(regulations, related)
	result.TotalChemicals = len(result.Chemicals)
	result.TotalRegulations = len(result.Regulations)
	return result
}

// fallbackSearch retries with substance names extracted from request
// phrasing, running a hybrid search per name.
func (r *Retriever) fallbackSearch(ctx context.Context, query string, topK int, monitor Monitor) core.RetrievalResult {
	names := ExtractChemicalNames(query)
	if len(names) == 0 {
		return core.EmptyResult(query)
	}
	monitor.FallbackNames(names)
	r.logger.Info("falling back to extracted names", "query", query, "names", names)

	var all []core.SearchHit
	for _, name := range names {
		all = append(all, r.hybridSearch(ctx, name, topK, monitor)...)
	}
	if len(all) == 0 {
		return core.EmptyResult(query)
	}

	// Overlapping names ("汽油的" and "汽油") find the same hits.
	return r.assemble(ctx, query, MergeHits(all), monitor)
}

// Stats aggregates catalog statistics, index statistics and settings.
func (r *Retriever) Stats(ctx context.Context) (core.RetrievalStats, error) {
	catalog, err := r.chemicals.Statistics(ctx)
	if err != nil {
		return core.RetrievalStats{}, err
	}
	return core.RetrievalStats{
		Catalog:  *catalog,
		Index:    r.index.Stats(),
		Settings: r.settings,
	}, nil
}
