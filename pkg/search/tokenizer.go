package search

import (
	"slices"
	"strings"
	"unicode"
)

type Token string

type TokenList []Token

func (t *TokenList) AddToken(token Token) {
	if slices.Contains(*t, token) {
		return
	}
	*t = append(*t, token)
}

var commonIssues = map[rune]rune{
	'ö': 'o',
	'ä': 'a',
	'å': 'a',
	'é': 'e',
	'è': 'e',
	'ê': 'e',
	'ë': 'e',
	'ï': 'i',
	'î': 'i',
	'ô': 'o',
	'ü': 'u',
	'û': 'u',
	'ÿ': 'y',
	'ç': 'c',
	'ñ': 'n',
	'ß': 's',
	'æ': 'a',
	'ø': 'o',
}

// NormalizeWord lower cases, folds common accents and drops everything that
// is not a letter or a digit.
func NormalizeWord(text string) Token {
	ret := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			l := unicode.ToLower(r)
			if replacement, ok := commonIssues[l]; ok {
				l = replacement
			}
			ret = append(ret, l)
		}
	}
	return Token(ret)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Tokenize splits text into unique normalized tokens in input order.
func Tokenize(text string) TokenList {
	ret := TokenList{}
	for _, word := range strings.FieldsFunc(text, isSeparator) {
		if token := NormalizeWord(word); token != "" {
			ret.AddToken(token)
		}
	}
	return ret
}

// Normalize returns the normalized words of text joined by single spaces,
// keeping duplicates so phrase containment still works.
func Normalize(text string) string {
	words := strings.FieldsFunc(text, isSeparator)
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if token := NormalizeWord(word); token != "" {
			parts = append(parts, string(token))
		}
	}
	return strings.Join(parts, " ")
}
