package catalog

import (
	"fmt"
	"strings"

	"github.com/poiesic/hazmatrag/core"
)

// column is one catalog field and the header names it is known by.
type column struct {
	name    string
	aliases []string
	set     func(rec *core.ChemicalRecord, value string)
}

// columns lists every catalog field. Aliases are compared after
// normalizeHeader, so "UN Number" and "un_number" are the same header.
var columns = []column{
	{name: "un_number", aliases: []string{"联合国编号", "un编号", "un号", "un"}},
	{name: "chinese_name", aliases: []string{"名称和说明", "中文名称", "名称", "化学品名称"},
		set: func(r *core.ChemicalRecord, v string) { r.ChineseName = v }},
	{name: "english_name", aliases: []string{"英文名称和说明", "英文名称", "english"},
		set: func(r *core.ChemicalRecord, v string) { r.EnglishName = v }},
	{name: "category", aliases: []string{"类别或项别", "危险性类别", "危险类别", "hazard_class", "class"},
		set: func(r *core.ChemicalRecord, v string) { r.Category = v }},
	{name: "secondary_hazard", aliases: []string{"次要危险性", "subsidiary_hazard"},
		set: func(r *core.ChemicalRecord, v string) { r.SecondaryHazard = v }},
	{name: "packaging_group", aliases: []string{"包装类别", "packing_group"},
		set: func(r *core.ChemicalRecord, v string) { r.PackagingGroup = v }},
	{name: "special_provisions", aliases: []string{"特殊规定", "provisions"},
		set: func(r *core.ChemicalRecord, v string) { r.SpecialProvisions = v }},
	{name: "limited_quantity", aliases: []string{"有限数量"},
		set: func(r *core.ChemicalRecord, v string) { r.LimitedQuantity = v }},
	{name: "excepted_quantity", aliases: []string{"例外数量"},
		set: func(r *core.ChemicalRecord, v string) { r.ExceptedQuantity = v }},
	{name: "packaging_instruction", aliases: []string{"包装和中型散装容器包装指南", "包装指南"},
		set: func(r *core.ChemicalRecord, v string) { r.PackagingInstruction = v }},
	{name: "packaging_special_provision", aliases: []string{"包装和中型散装容器特殊包装规定", "包装特殊规定"},
		set: func(r *core.ChemicalRecord, v string) { r.PackagingSpecialProvision = v }},
	{name: "portable_tank_instruction", aliases: []string{"可移动罐柜和散装容器指南", "罐柜指南"},
		set: func(r *core.ChemicalRecord, v string) { r.PortableTankInstruction = v }},
	{name: "portable_tank_special_provision", aliases: []string{"可移动罐柜和散装容器特殊规定", "罐柜特殊规定"},
		set: func(r *core.ChemicalRecord, v string) { r.PortableTankSpecialProvision = v }},
}

const (
	unNumberColumn    = 0
	chineseNameColumn = 1
)

var headerLookup = buildHeaderLookup()

func buildHeaderLookup() map[string]int {
	lookup := make(map[string]int)
	for i, c := range columns {
		lookup[c.name] = i
		for _, alias := range c.aliases {
			lookup[normalizeHeader(alias)] = i
		}
	}
	return lookup
}

// normalizeHeader folds a header cell for lookup.
func normalizeHeader(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	header = strings.ToLower(strings.TrimSpace(header))
	return strings.Join(strings.Fields(header), "_")
}

// headerMap maps column indexes to cell positions. The first matching
// cell wins when a header repeats.
type headerMap []int

func mapHeader(header []string) (headerMap, error) {
	positions := make(headerMap, len(columns))
	for i := range positions {
		positions[i] = -1
	}
	for pos, cell := range header {
		if i, ok := headerLookup[normalizeHeader(cell)]; ok && positions[i] < 0 {
			positions[i] = pos
		}
	}
	for _, required := range []int{unNumberColumn, chineseNameColumn} {
		if positions[required] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columns[required].name)
		}
	}
	return positions, nil
}

// cell returns the trimmed value of column i in row, or "" when the row is short.
func (h headerMap) cell(row []string, i int) string {
	pos := h[i]
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
