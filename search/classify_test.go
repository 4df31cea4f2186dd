package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/hazmatrag/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  core.QueryType
	}{
		{"UN1133", core.QueryTypeExactID},
		{"un 3480 的包装", core.QueryTypeExactID},
		{"查询1203的信息", core.QueryTypeExactID},
		{"UN12345", core.QueryTypeExactID},
		{"锂电池安全运输", core.QueryTypeNameSearch},
		{"硫酸", core.QueryTypeNameSearch},
		{"lithium battery transport safety", core.QueryTypeNameSearch},
		{"Is GAS allowed?", core.QueryTypeNameSearch},
		{"special provision 188", core.QueryTypeNaturalLanguage},
		{"how do I ship this", core.QueryTypeNaturalLanguage},
		{"gasket", core.QueryTypeNaturalLanguage},
		{"", core.QueryTypeNaturalLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestExtractUNNumbers(t *testing.T) {
	tests := []struct {
		query string
		want  []int
	}{
		{"UN1133", []int{1133}},
		{"UN1133 and 1133, UN 3480", []int{1133, 3480}},
		{"un3480与UN1203", []int{3480, 1203}},
		{"188 230", []int{}},
		{"abc1133", []int{}},
		{"", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUNNumbers(tt.query))
		})
	}
}

func TestClassify_IdentifierAlwaysExact(t *testing.T) {
	for _, query := range []string{"UN1133 电池", "1993 酸", "运输 UN 3480 安全"} {
		assert.Equal(t, core.QueryTypeExactID, Classify(query), query)
		assert.NotEmpty(t, ExtractUNNumbers(query), query)
	}
}
