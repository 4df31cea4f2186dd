package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/hazmatrag/core"
)

// unNumberPattern matches 4+ digit codes with an optional two-letter
// registry tag such as "UN1133", "un 3480" or a bare "1993".
var unNumberPattern = regexp.MustCompile(`(?i)\b(?:[a-z]{2}\s*)?(\d{4,})\b`)

// chemicalNouns mark a query as a substance name search.
var chemicalNouns = []string{"化学品", "物质", "液体", "固体", "气体", "电池", "酸", "碱", "醇", "醚"}

var englishChemicalNouns = map[string]bool{
	"chemical": true, "chemicals": true, "substance": true, "substances": true,
	"liquid": true, "liquids": true, "solid": true, "solids": true,
	"gas": true, "gases": true, "battery": true, "batteries": true,
	"acid": true, "acids": true, "base": true, "alkali": true,
	"alcohol": true, "alcohols": true, "ether": true, "ethers": true,
}

// Classify decides which search an auto query should start with.
func Classify(query string) core.QueryType {
	if unNumberPattern.MatchString(query) {
		return core.QueryTypeExactID
	}
	for _, noun := range chemicalNouns {
		if strings.Contains(query, noun) {
			return core.QueryTypeNameSearch
		}
	}
	for _, word := range strings.FieldsFunc(strings.ToLower(query), isWordBreak) {
		if englishChemicalNouns[word] {
			return core.QueryTypeNameSearch
		}
	}
	return core.QueryTypeNaturalLanguage
}

func isWordBreak(r rune) bool {
	return !(r >= 'a' && r <= 'z')
}

// ExtractUNNumbers returns the identifiers in query in order of appearance,
// without duplicates.
func ExtractUNNumbers(query string) []int {
	matches := unNumberPattern.FindAllStringSubmatch(query, -1)
	seen := make(map[int]bool, len(matches))
	numbers := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}
