package terms

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"hiring-platform/internal/matching"
)

// minTermRunes is the shortest token the fallback tokenizer keeps.
const minTermRunes = 4

// Tokenize is the local fallback: lower-cased alphanumeric runs longer
// than three characters, deduplicated, each weighted 1.0.
func Tokenize(text string) matching.TermWeights {
	normalized := strings.ToLower(norm.NFKC.String(text))

	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	weights := make(matching.TermWeights, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) >= minTermRunes {
			weights[tok] = 1.0
		}
	}
	return weights
}
