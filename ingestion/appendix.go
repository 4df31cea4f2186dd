package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/normalize"
)

// section is one numbered block of appendix text.
type section struct {
	id   int
	text string
}

// sectionProcessor chunks appendix sections into regulation documents.
type sectionProcessor struct {
	chunker *normalize.Chunker
	logger  *slog.Logger
}

var _ processor[section] = (*sectionProcessor)(nil)

func newSectionProcessor(chunker *normalize.Chunker, logger *slog.Logger) *sectionProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &sectionProcessor{
		chunker: chunker,
		logger:  logger.With("processor", "appendix"),
	}
}

func (sp *sectionProcessor) process(ctx context.Context, sections ...section) ([]core.Document, error) {
	var docs []core.Document
	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks, err := sp.chunker.SectionDocuments(s.id, s.text)
		if err != nil {
			return nil, err
		}
		docs = append(docs, chunks...)
	}
	sp.logger.Debug("chunked appendix sections", "sections", len(sections), "chunks", len(docs))
	return docs, nil
}

// splitAppendix strips markdown and numbers its sections.
func splitAppendix(markdown string) []section {
	texts := normalize.SplitSections(normalize.MarkdownToText(markdown))
	sections := make([]section, len(texts))
	for i, text := range texts {
		sections[i] = section{id: i, text: text}
	}
	return sections
}
