package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/poiesic/hazmatrag/core"
)

// printer formats results for the terminal. Colors are used only when
// enabled by resolveColors.
type printer struct {
	out       io.Writer
	useColors bool
}

// resolveColors maps the --color flag to a decision. "auto" follows
// NO_COLOR, TERM=dumb and whether stdout is a terminal.
func resolveColors(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		if os.Getenv("TERM") == "dumb" {
			return false, nil
		}
		return !color.NoColor, nil
	default:
		return false, fmt.Errorf("invalid color mode %q: must be auto, always, or never", mode)
	}
}

func (p *printer) header(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan, color.Bold).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

func (p *printer) score(s float64) string {
	text := fmt.Sprintf("%.3f", s)
	if !p.useColors {
		return text
	}
	switch {
	case s >= 0.9:
		return color.GreenString(text)
	case s >= 0.3:
		return color.YellowString(text)
	default:
		return color.WhiteString(text)
	}
}

func (p *printer) result(result *core.RetrievalResult) {
	fmt.Fprintf(p.out, "Query: %s\n", result.Query)
	if result.IsEmpty() {
		fmt.Fprintln(p.out, "No results.")
		return
	}

	p.header("\nChemicals (%d)", result.TotalChemicals)
	for i, hit := range result.Chemicals {
		p.hit(i+1, &hit)
	}

	p.header("\nRegulations (%d)", result.TotalRegulations)
	for i, hit := range result.Regulations {
		p.hit(i+1, &hit)
	}
}

func (p *printer) hit(n int, hit *core.SearchHit) {
	fmt.Fprintf(p.out, "[%d] score %s  %s  %s\n", n, p.score(hit.Score), hit.Metadata.SearchType, p.dim(hit.Metadata.ID))
	for _, line := range strings.Split(strings.TrimSpace(hit.Content), "\n") {
		fmt.Fprintf(p.out, "    %s\n", line)
	}
}

func (p *printer) stats(stats *core.RetrievalStats) {
	p.header("Catalog")
	fmt.Fprintf(p.out, "  chemicals: %d (backend: %s)\n", stats.Catalog.TotalChemicals, stats.Settings.CatalogBackend)
	p.distribution("  categories", stats.Catalog.CategoryDistribution)
	p.distribution("  packaging groups", stats.Catalog.PackagingGroupDistribution)

	p.header("Index")
	fmt.Fprintf(p.out, "  documents: %d\n", stats.Index.TotalDocuments)
	fmt.Fprintf(p.out, "  fitted: %t (vocabulary: %d)\n", stats.Index.Fitted, stats.Index.VocabularySize)
	for _, docType := range slices.Sorted(maps.Keys(stats.Index.DocTypes)) {
		fmt.Fprintf(p.out, "  %s documents: %d\n", docType, stats.Index.DocTypes[docType])
	}
	for _, source := range slices.Sorted(maps.Keys(stats.Index.Sources)) {
		fmt.Fprintf(p.out, "  source %s: %d\n", source, stats.Index.Sources[source])
	}

	p.header("Settings")
	fmt.Fprintf(p.out, "  retrieval_top_k: %d\n", stats.Settings.RetrievalTopK)
	fmt.Fprintf(p.out, "  similarity_threshold: %g\n", stats.Settings.SimilarityThreshold)
	fmt.Fprintf(p.out, "  default_top_k: %d\n", stats.Settings.DefaultTopK)
}

func (p *printer) distribution(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	parts := make([]string, 0, len(counts))
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s=%d", key, counts[key]))
	}
	fmt.Fprintf(p.out, "%s: %s\n", label, strings.Join(parts, ", "))
}

// JSON views carry snake_case keys for scripts consuming --json output.

type hitView struct {
	ID         string               `json:"id"`
	Content    string               `json:"content"`
	Score      float64              `json:"score"`
	SearchType core.SearchType      `json:"search_type,omitempty"`
	DocType    core.DocType         `json:"doc_type"`
	Source     core.Source          `json:"source"`
	UNNumber   int                  `json:"un_number,omitempty"`
	Name       string               `json:"name,omitempty"`
	Category   string               `json:"category,omitempty"`
	Chemical   *core.ChemicalRecord `json:"chemical,omitempty"`
}

type resultView struct {
	Query            string    `json:"query"`
	Chemicals        []hitView `json:"chemicals"`
	Regulations      []hitView `json:"regulations"`
	TotalChemicals   int       `json:"total_chemicals"`
	TotalRegulations int       `json:"total_regulations"`
}

func newHitViews(hits []core.SearchHit) []hitView {
	views := make([]hitView, len(hits))
	for i, hit := range hits {
		views[i] = hitView{
			ID:         hit.Metadata.ID,
			Content:    hit.Content,
			Score:      hit.Score,
			SearchType: hit.Metadata.SearchType,
			DocType:    hit.Metadata.DocType,
			Source:     hit.Metadata.Source,
			UNNumber:   hit.Metadata.UNNumber,
			Name:       hit.Metadata.Name,
			Category:   hit.Metadata.Category,
			Chemical:   hit.Chemical,
		}
	}
	return views
}

func newResultView(result *core.RetrievalResult) resultView {
	return resultView{
		Query:            result.Query,
		Chemicals:        newHitViews(result.Chemicals),
		Regulations:      newHitViews(result.Regulations),
		TotalChemicals:   result.TotalChemicals,
		TotalRegulations: result.TotalRegulations,
	}
}

type statsView struct {
	TotalChemicals       int                  `json:"total_chemicals"`
	CategoryDistribution map[string]int       `json:"category_distribution"`
	PackagingGroups      map[string]int       `json:"packaging_group_distribution"`
	TotalDocuments       int                  `json:"total_documents"`
	Fitted               bool                 `json:"fitted"`
	VocabularySize       int                  `json:"vocabulary_size"`
	DocTypes             map[core.DocType]int `json:"doc_types"`
	Sources              map[core.Source]int  `json:"sources"`
	RetrievalTopK        int                  `json:"retrieval_top_k"`
	SimilarityThreshold  float64              `json:"similarity_threshold"`
	DefaultTopK          int                  `json:"default_top_k"`
	CatalogBackend       string               `json:"catalog_backend"`
}

func newStatsView(stats *core.RetrievalStats) statsView {
	return statsView{
		TotalChemicals:       stats.Catalog.TotalChemicals,
		CategoryDistribution: stats.Catalog.CategoryDistribution,
		PackagingGroups:      stats.Catalog.PackagingGroupDistribution,
		TotalDocuments:       stats.Index.TotalDocuments,
		Fitted:               stats.Index.Fitted,
		VocabularySize:       stats.Index.VocabularySize,
		DocTypes:             stats.Index.DocTypes,
		Sources:              stats.Index.Sources,
		RetrievalTopK:        stats.Settings.RetrievalTopK,
		SimilarityThreshold:  stats.Settings.SimilarityThreshold,
		DefaultTopK:          stats.Settings.DefaultTopK,
		CatalogBackend:       stats.Settings.CatalogBackend,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
