package hazmatrag

import (
	"context"
	"fmt"

	"github.com/poiesic/hazmatrag/catalog"
	"github.com/poiesic/hazmatrag/core"
)

// BuildInput names the sources of a build.
type BuildInput struct {
	// CatalogPath is a .csv or .xlsx catalog file. Required.
	CatalogPath string

	// Sheet selects the workbook sheet by name or zero-based index.
	// Empty means the first sheet.
	Sheet string

	// AppendixPath is the regulation appendix in markdown. Optional.
	AppendixPath string

	// Overwrite wipes an existing catalog and index first.
	Overwrite bool
}

// BuildReport counts what a build stored.
type BuildReport struct {
	ChemicalsAdded   int
	ChemicalsSkipped int
	ChemicalDocs     int
	RegulationChunks int
	Stats            core.RetrievalStats
}

// Build imports the catalog, indexes it, then imports the appendix.
// The catalog is indexed before the appendix so that it fits the vectorizer.
func (db *Database) Build(ctx context.Context, input BuildInput) (*BuildReport, error) {
	if input.CatalogPath == "" {
		return nil, ErrCatalogFileRequired
	}

	if err := db.prepareBuild(ctx, input.Overwrite); err != nil {
		return nil, err
	}

	loader := catalog.NewLoader(catalog.WithLogger(db.logger))
	var (
		loaded *catalog.Result
		err    error
	)
	if input.Sheet != "" {
		loaded, err = loader.LoadXLSX(input.CatalogPath, input.Sheet)
	} else {
		loaded, err = loader.LoadFile(input.CatalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	report := &BuildReport{ChemicalsSkipped: loaded.Skipped}

	imported, err := pipeline.ImportChemicals(ctx, loaded.Records)
	if err != nil {
		return nil, err
	}
	report.ChemicalsAdded = imported.Added
	report.ChemicalsSkipped += imported.Skipped

	if report.ChemicalsAdded > 0 {
		report.ChemicalDocs, err = pipeline.IndexCatalog(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		db.logger.Warn("catalog is empty, index will be fitted on the appendix")
	}

	if input.AppendixPath != "" {
		report.RegulationChunks, err = pipeline.ImportAppendixFile(ctx, input.AppendixPath)
		if err != nil {
			return nil, err
		}
	}

	report.Stats, err = db.Stats(ctx)
	if err != nil {
		return nil, err
	}

	db.logger.Info("build complete",
		"chemicals", report.ChemicalsAdded,
		"skipped", report.ChemicalsSkipped,
		"chemical_docs", report.ChemicalDocs,
		"regulation_chunks", report.RegulationChunks)
	return report, nil
}

func (db *Database) prepareBuild(ctx context.Context, overwrite bool) error {
	count, err := db.chemicals.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 && db.index.Len() == 0 {
		return nil
	}
	if !overwrite {
		return fmt.Errorf("%w: %d catalog records, %d indexed documents", ErrAlreadyBuilt, count, db.index.Len())
	}

	if err := db.chemicals.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}
	if err := db.index.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}
	db.logger.Info("existing catalog and index removed")
	return nil
}
