package data

import (
	"regexp"
	"strings"
)

var (
	wordRegEx = regexp.MustCompile(`[a-z][a-z']*`)

	// minimal stop list, just enough to keep the obvious glue words from
	// dominating every imported corpus
	stopWords = map[string]bool{
		"the": true, "and": true, "for": true, "are": true, "but": true,
		"not": true, "you": true, "all": true, "can": true, "her": true,
		"was": true, "one": true, "our": true, "out": true, "has": true,
		"have": true, "this": true, "that": true, "with": true, "from": true,
		"they": true, "will": true, "would": true, "there": true, "their": true,
		"what": true, "about": true, "which": true, "when": true, "been": true,
		"were": true, "into": true, "than": true, "then": true, "them": true,
		"these": true, "some": true, "could": true, "should": true, "while": true,
	}
)

// Tokenize splits text into lowercase word tokens, dropping stop words and
// tokens shorter than minLen.
func Tokenize(text string, minLen int) []string {
	if minLen < 1 {
		minLen = 1
	}

	tokens := wordRegEx.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.Trim(tok, "'")
		if len(tok) < minLen || stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// CountTokens tokenizes text and folds the tokens into the given counts map.
func CountTokens(counts map[string]float64, text string, minLen int) {
	for _, tok := range Tokenize(text, minLen) {
		counts[tok]++
	}
}
