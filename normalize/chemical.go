package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/hazmatrag/core"
)

// documentSeparator joins the labelled fields of a chemical document.
const documentSeparator = " | "

// nullValue is shown for empty fields in labelled content.
const nullValue = "null"

type field struct {
	label string
	value func(c *core.ChemicalRecord) string
}

// documentFields are the labels used for vectorization. Empty values are omitted.
var documentFields = []field{
	{"中文名称", func(c *core.ChemicalRecord) string { return c.ChineseName }},
	{"英文名称", func(c *core.ChemicalRecord) string { return c.EnglishName }},
	{"危险类别", func(c *core.ChemicalRecord) string { return c.Category }},
	{"次要危险性", func(c *core.ChemicalRecord) string { return c.SecondaryHazard }},
	{"包装类别", func(c *core.ChemicalRecord) string { return c.PackagingGroup }},
	{"特殊规定", func(c *core.ChemicalRecord) string { return c.SpecialProvisions }},
	{"有限数量", func(c *core.ChemicalRecord) string { return c.LimitedQuantity }},
	{"例外数量", func(c *core.ChemicalRecord) string { return c.ExceptedQuantity }},
	{"包装指南", func(c *core.ChemicalRecord) string { return c.PackagingInstruction }},
	{"包装特殊规定", func(c *core.ChemicalRecord) string { return c.PackagingSpecialProvision }},
	{"罐柜指南", func(c *core.ChemicalRecord) string { return c.PortableTankInstruction }},
	{"罐柜特殊规定", func(c *core.ChemicalRecord) string { return c.PortableTankSpecialProvision }},
}

// contentFields are the catalog column names shown in labelled content.
var contentFields = []field{
	{"联合国编号", func(c *core.ChemicalRecord) string {
		if c.UNNumber <= 0 {
			return ""
		}
		return strconv.Itoa(c.UNNumber)
	}},
	{"名称和说明", func(c *core.ChemicalRecord) string { return c.ChineseName }},
	{"英文名称和说明", func(c *core.ChemicalRecord) string { return c.EnglishName }},
	{"类别或项别", func(c *core.ChemicalRecord) string { return c.Category }},
	{"次要危险性", func(c *core.ChemicalRecord) string { return c.SecondaryHazard }},
	{"包装类别", func(c *core.ChemicalRecord) string { return c.PackagingGroup }},
	{"特殊规定", func(c *core.ChemicalRecord) string { return c.SpecialProvisions }},
	{"有限数量", func(c *core.ChemicalRecord) string { return c.LimitedQuantity }},
	{"例外数量", func(c *core.ChemicalRecord) string { return c.ExceptedQuantity }},
	{"包装和中型散装容器包装指南", func(c *core.ChemicalRecord) string { return c.PackagingInstruction }},
	{"包装和中型散装容器特殊包装规定", func(c *core.ChemicalRecord) string { return c.PackagingSpecialProvision }},
	{"可移动罐柜和散装容器指南", func(c *core.ChemicalRecord) string { return c.PortableTankInstruction }},
	{"可移动罐柜和散装容器特殊规定", func(c *core.ChemicalRecord) string { return c.PortableTankSpecialProvision }},
}

// ChemicalDocument renders a record as the text that is vectorized,
// e.g. "联合国编号：UN1133 | 中文名称：黏合剂 | 危险类别：3".
// Empty fields are left out.
func ChemicalDocument(c *core.ChemicalRecord) string {
	if c == nil {
		return ""
	}

	parts := make([]string, 0, len(documentFields)+1)
	if c.UNNumber > 0 {
		parts = append(parts, fmt.Sprintf("联合国编号：UN%d", c.UNNumber))
	}
	for _, f := range documentFields {
		if v := strings.TrimSpace(f.value(c)); v != "" {
			parts = append(parts, f.label+"："+v)
		}
	}
	return strings.Join(parts, documentSeparator)
}

// ChemicalContent renders every catalog column as a "label: value" line.
// Empty values are shown as null so that all thirteen lines are always present.
func ChemicalContent(c *core.ChemicalRecord) string {
	if c == nil {
		return ""
	}

	lines := make([]string, len(contentFields))
	for i, f := range contentFields {
		v := strings.TrimSpace(f.value(c))
		if v == "" {
			v = nullValue
		}
		lines[i] = f.label + ": " + v
	}
	return strings.Join(lines, "\n")
}

// ChemicalDocumentID is the index id of a catalog record.
// The record ID keeps packaging variants of one UN number apart.
func ChemicalDocumentID(c *core.ChemicalRecord) string {
	return fmt.Sprintf("chemical_%d_%d", c.UNNumber, c.Id)
}

// ChemicalIndexDocument builds the semantic index document for a catalog record.
func ChemicalIndexDocument(c *core.ChemicalRecord) (core.Document, error) {
	if err := core.ValidateChemicalRecord(c); err != nil {
		return core.Document{}, err
	}

	return core.Document{
		Content:  ChemicalDocument(c),
		Metadata: ChemicalMetadata(c),
	}, nil
}

// ChemicalMetadata describes a catalog record as an indexed chemical document.
func ChemicalMetadata(c *core.ChemicalRecord) core.DocumentMetadata {
	return core.DocumentMetadata{
		ID:             ChemicalDocumentID(c),
		Source:         core.SourceCatalog,
		DocType:        core.DocTypeChemical,
		UNNumber:       c.UNNumber,
		Name:           c.ChineseName,
		Category:       c.Category,
		PackagingGroup: c.PackagingGroup,
	}
}
