package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// expansionRule adds catalog name probes when a query contains all of its
// triggers.
type expansionRule struct {
	triggers []string
	terms    []string
}

// nameExpansions is consulted when a name substring search finds nothing.
// Rules within a group are exclusive; the first matching rule wins.
var nameExpansions = [][]expansionRule{
	{
		{triggers: []string{"锂电池"}, terms: []string{"锂离子电池", "锂金属电池", "锂合金电池"}},
		{triggers: []string{"电池", "锂"}, terms: []string{"锂离子电池", "锂金属电池"}},
		{triggers: []string{"电池"}, terms: []string{"锂离子电池", "锂金属电池", "电池"}},
	},
	{
		{triggers: []string{"易燃"}, terms: []string{"易燃液体", "易燃固体", "易燃气体"}},
		{triggers: []string{"腐蚀"}, terms: []string{"腐蚀性物质", "腐蚀性液体"}},
		{triggers: []string{"有毒"}, terms: []string{"有毒物质", "毒性物质"}},
	},
}

// ExpandSearchTerms returns related catalog names to probe for query.
func ExpandSearchTerms(query string) []string {
	var terms []string
	for _, group := range nameExpansions {
		for _, rule := range group {
			if containsAll(query, rule.triggers) {
				terms = append(terms, rule.terms...)
				break
			}
		}
	}
	return dedupe(terms)
}

func containsAll(s string, substrs []string) bool {
	for _, sub := range substrs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// keywordRule maps a chemical name fragment to regulation search terms.
type keywordRule struct {
	triggers []string
	terms    []string
}

var chineseKeywordRules = []keywordRule{
	{triggers: []string{"电池"}, terms: []string{"电池", "锂电池", "锂离子"}},
	{triggers: []string{"黏合剂", "胶"}, terms: []string{"黏合剂", "胶水", "胶"}},
	{triggers: []string{"汽油"}, terms: []string{"汽油", "燃料"}},
	{triggers: []string{"乙醇"}, terms: []string{"乙醇", "酒精"}},
}

var englishKeywordRules = []keywordRule{
	{triggers: []string{"battery", "batteries"}, terms: []string{"battery", "lithium battery", "lithium-ion"}},
	{triggers: []string{"adhesive", "glue"}, terms: []string{"adhesive", "glue"}},
	{triggers: []string{"gasoline", "petrol"}, terms: []string{"gasoline", "fuel"}},
	{triggers: []string{"ethanol"}, terms: []string{"ethanol", "alcohol"}},
}

// nameKeywords derives regulation search terms from a chemical's names.
// Every matching rule contributes; callers cap the list.
func nameKeywords(chineseName, englishName string) []string {
	var terms []string
	for _, rule := range chineseKeywordRules {
		if containsAny(chineseName, rule.triggers) {
			terms = append(terms, rule.terms...)
		}
	}
	english := strings.ToLower(englishName)
	for _, rule := range englishKeywordRules {
		if containsAny(english, rule.triggers) {
			terms = append(terms, rule.terms...)
		}
	}
	return terms
}

func containsAny(s string, substrs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// intentPatterns strip request phrasing from a query, capturing the
// substance name in group 1.
var intentPatterns = compileAll(
	`(.+?)存储要求`,
	`(.+?)储存要求`,
	`(.+?)保存要求`,
	`(.+?)的存储要求`,
	`(.+?)的储存要求`,
	`(.+?)的保存要求`,
	`(.+?)运输要求`,
	`(.+?)的运输要求`,
	`(.+?)安全要求`,
	`(.+?)的安全要求`,
	`(.+?)包装要求`,
	`(.+?)的包装要求`,
	`(.+?)危险性`,
	`(.+?)的危险性`,
	`(.+?)注意事项`,
	`(.+?)的注意事项`,
	`(.+?)规定`,
	`(.+?)的规定`,
	`(?i)(?:storage|transport|safety|packaging) requirements (?:for|of) (.+?)[?.!]*$`,
	`(?i)(?:hazards?|precautions|provisions) (?:for|of) (.+?)[?.!]*$`,
	`(?i)^(?:what are )?(?:the )?(.+?)(?:'s)? (?:storage|transport|safety|packaging) requirements`,
	`(?i)^(?:what are )?(?:the )?(.+?)(?:'s)? (?:hazards?|precautions)`,
)

var longDigitRun = regexp.MustCompile(`[0-9]{3,}`)

const maxFallbackNames = 3

// ExtractChemicalNames recovers up to three candidate substance names from
// request phrasing such as "汽油的储存要求".
func ExtractChemicalNames(query string) []string {
	var names []string
	for _, pattern := range intentPatterns {
		m := pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(name) < 2 || longDigitRun.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	names = dedupe(names)
	if len(names) > maxFallbackNames {
		names = names[:maxFallbackNames]
	}
	return names
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// dedupe removes repeated strings, keeping first occurrences in order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
