// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// Strategy selects how a query is dispatched to the underlying searches.
type Strategy int

const (
	// StrategyAuto classifies the query and picks a search.
	StrategyAuto Strategy = iota + 1
	// StrategyExact queries the structured catalog only.
	StrategyExact
	// StrategySemantic queries the semantic index only.
	StrategySemantic
	// StrategyHybrid runs both searches and merges their hits.
	StrategyHybrid
)

var strategyNames = map[Strategy]string{
	StrategyAuto:     "auto",
	StrategyExact:    "exact",
	StrategySemantic: "semantic",
	StrategyHybrid:   "hybrid",
}

// String returns the canonical lowercase name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a strategy name into a Strategy.
// An empty name selects StrategyAuto.
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return StrategyAuto, nil
	}
	for strategy, candidate := range strategyNames {
		if candidate == normalized {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected auto, exact, semantic or hybrid)", ErrInvalidStrategy, name)
}

// ValidateStrategy reports whether s is one of the defined strategies.
func ValidateStrategy(s Strategy) error {
	if _, ok := strategyNames[s]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidStrategy, s)
	}
	return nil
}

// QueryType is the classifier's verdict on a query.
type QueryType int

const (
	QueryTypeExactID QueryType = iota + 1
	QueryTypeNameSearch
	QueryTypeNaturalLanguage
)

func (q QueryType) String() string {
	switch q {
	case QueryTypeExactID:
		return "exact_id"
	case QueryTypeNameSearch:
		return "name_search"
	case QueryTypeNaturalLanguage:
		return "natural_language"
	default:
		return fmt.Sprintf("QueryType(%d)", int(q))
	}
}
