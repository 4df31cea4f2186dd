package tfidf

import "github.com/poiesic/hazmatrag/core"

func stateOf(terms []string, idf []float32) *core.VectorizerState {
	return &core.VectorizerState{Terms: terms, IDF: idf, DocumentCount: 1}
}
