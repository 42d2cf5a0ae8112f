package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The Quick-Brown fox, jumped over the lazy dog!", 3)
	assert.Equal(t, []string{"quick", "brown", "fox", "jumped", "over", "lazy", "dog"}, tokens)
}

func TestTokenize_MinLength(t *testing.T) {
	tokens := Tokenize("a ab abc abcd", 4)
	assert.Equal(t, []string{"abcd"}, tokens)
}

func TestTokenize_StopWords(t *testing.T) {
	tokens := Tokenize("this is the way that they went", 1)
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "this")
	assert.Contains(t, tokens, "way")
	assert.Contains(t, tokens, "went")
}

func TestTokenize_Apostrophes(t *testing.T) {
	tokens := Tokenize("don't panic'", 2)
	assert.Equal(t, []string{"don't", "panic"}, tokens)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize("", 3))
	assert.Empty(t, Tokenize("123 456 !!!", 1))
}

func TestCountTokens(t *testing.T) {
	counts := make(map[string]float64)
	CountTokens(counts, "fox fox dog", 3)
	CountTokens(counts, "fox", 3)
	assert.Equal(t, float64(3), counts["fox"])
	assert.Equal(t, float64(1), counts["dog"])
}
