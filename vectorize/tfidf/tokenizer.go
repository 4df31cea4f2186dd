package tfidf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/hazmatrag/vectorize"
)

// Tokenizer segments mixed Chinese and Latin text without a dictionary.
//
// Text is NFKC-folded first so full-width digits and letters match their
// ASCII forms. Runs of Han characters become overlapping bigrams; runs of
// other letters and digits become single tokens. Everything else separates
// tokens.
type Tokenizer struct {
	minRunes  int
	lowercase bool
	stopWords map[string]struct{}
}

var _ vectorize.Tokenizer = (*Tokenizer)(nil)

// NewTokenizer creates a tokenizer honouring the token filters in cfg.
func NewTokenizer(cfg *vectorize.Config) *Tokenizer {
	if cfg == nil {
		cfg = vectorize.DefaultConfig()
	}
	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[w] = struct{}{}
	}
	return &Tokenizer{
		minRunes:  cfg.MinTokenRunes,
		lowercase: cfg.Lowercase,
		stopWords: stop,
	}
}

// Tokenize implements vectorize.Tokenizer.
func (t *Tokenizer) Tokenize(text string) []string {
	text = norm.NFKC.String(text)

	var (
		tokens []string
		run    []rune
		runHan bool
	)

	flush := func() {
		if len(run) == 0 {
			return
		}
		if runHan && len(run) > 1 {
			for i := 0; i+1 < len(run); i++ {
				tokens = t.appendToken(tokens, string(run[i:i+2]))
			}
		} else {
			tokens = t.appendToken(tokens, string(run))
		}
		run = run[:0]
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			if !runHan {
				flush()
			}
			runHan = true
			run = append(run, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if runHan {
				flush()
			}
			runHan = false
			run = append(run, r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

func (t *Tokenizer) appendToken(tokens []string, token string) []string {
	if t.lowercase {
		token = strings.ToLower(token)
	}
	if utf8.RuneCountInString(token) < t.minRunes {
		return tokens
	}
	if _, stop := t.stopWords[token]; stop {
		return tokens
	}
	return append(tokens, token)
}
