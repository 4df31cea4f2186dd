package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/normalize"
)

// chemicalProcessor builds index documents for catalog records.
type chemicalProcessor struct {
	logger *slog.Logger
}

var _ processor[*core.ChemicalRecord] = (*chemicalProcessor)(nil)

func newChemicalProcessor(logger *slog.Logger) *chemicalProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &chemicalProcessor{logger: logger.With("processor", "chemicals")}
}

// process renders each record as a chemical document. Invalid records are skipped.
func (cp *chemicalProcessor) process(ctx context.Context, records ...*core.ChemicalRecord) ([]core.Document, error) {
	cp.logger.Debug("building chemical documents", "records", len(records))

	docs := make([]core.Document, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := normalize.ChemicalIndexDocument(rec)
		if err != nil {
			cp.logger.Warn("skipping catalog record", "err", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
