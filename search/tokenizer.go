package search

import (
	"regexp"
	"strings"
)

// nonWord matches everything that is not part of a term: letters (Han included),
// numbers, combining marks and underscore survive.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\p{Han}]+`)

// Tokenize lower-cases a query and splits it into terms.
func Tokenize(query string) []string {
	lowered := strings.ToLower(query)
	cleaned := nonWord.ReplaceAllString(lowered, " ")
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
