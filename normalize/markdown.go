package normalize

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/hazmatrag/core"
	"github.com/russross/blackfriday/v2"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the maximum chunk length in runes.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the overlap between consecutive chunks in runes.
	DefaultChunkOverlap = 50
	// DefaultMinChunkRunes drops chunks that are this short or shorter.
	DefaultMinChunkRunes = 50
)

// chunkSeparators split at line breaks first, then at CJK sentence
// punctuation, then anywhere.
var chunkSeparators = []string{"\n", "。", "！", "？", "；", ""}

var (
	headingOpenTag = regexp.MustCompile(`<h[1-6][^>]*>`)
	htmlTag        = regexp.MustCompile(`<[^>]+>`)
	sectionStart   = regexp.MustCompile(`^(\d+|#)(\s|$)`)
	headingMarker  = regexp.MustCompile(`^#\s+`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
)

// ErrInvalidChunking indicates a chunk size or overlap that cannot be used.
var ErrInvalidChunking = errors.New("invalid chunking parameters")

// Chunker splits regulation text into overlapping chunks.
type Chunker struct {
	splitter      textsplitter.RecursiveCharacter
	minChunkRunes int
}

// NewChunker creates a Chunker. The overlap must be smaller than the chunk size.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 || chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: size %d, overlap %d", ErrInvalidChunking, chunkSize, chunkOverlap)
	}

	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(chunkSeparators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
		minChunkRunes: DefaultMinChunkRunes,
	}, nil
}

// Split chunks a single section of text.
func (c *Chunker) Split(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return c.splitter.SplitText(text)
}

// RegulationDocuments converts a markdown corpus into index documents.
func (c *Chunker) RegulationDocuments(markdown string) ([]core.Document, error) {
	var docs []core.Document
	for i, section := range SplitSections(MarkdownToText(markdown)) {
		sectionDocs, err := c.SectionDocuments(i, section)
		if err != nil {
			return nil, err
		}
		docs = append(docs, sectionDocs...)
	}
	return docs, nil
}

// SectionDocuments chunks one section. Each chunk is identified as
// appendix_{section}_{chunk}; chunks of DefaultMinChunkRunes runes or
// fewer are dropped but still consume their chunk number.
func (c *Chunker) SectionDocuments(sectionID int, section string) ([]core.Document, error) {
	chunks, err := c.Split(section)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk section %d: %w", sectionID, err)
	}

	var docs []core.Document
	for j, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if utf8.RuneCountInString(chunk) <= c.minChunkRunes {
			continue
		}
		docs = append(docs, core.Document{
			Content: chunk,
			Metadata: core.DocumentMetadata{
				ID:        fmt.Sprintf("appendix_%d_%d", sectionID, j),
				Source:    core.SourceRegulationCorpus,
				DocType:   core.DocTypeRegulation,
				SectionID: sectionID,
				ChunkID:   j,
			},
		})
	}
	return docs, nil
}

// MarkdownToText renders markdown and strips the markup. Headings are
// kept on their own line behind a "# " marker so that SplitSections can
// find them.
func MarkdownToText(markdown string) string {
	rendered := string(blackfriday.Run([]byte(markdown)))
	rendered = headingOpenTag.ReplaceAllString(rendered, "\n# ")
	text := html.UnescapeString(htmlTag.ReplaceAllString(rendered, ""))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}

// SplitSections splits plain text before every line that starts with a
// section number ("16 新的或现有的爆炸性物质") or a "# " heading marker.
// Empty sections are dropped and heading markers removed.
func SplitSections(text string) []string {
	var (
		sections []string
		current  []string
	)
	flush := func() {
		section := strings.TrimSpace(strings.Join(current, "\n"))
		if section != "" {
			sections = append(sections, section)
		}
		current = current[:0]
	}

	for i, line := range strings.Split(text, "\n") {
		if i > 0 && sectionStart.MatchString(line) {
			flush()
		}
		current = append(current, headingMarker.ReplaceAllString(line, ""))
	}
	flush()

	return sections
}
