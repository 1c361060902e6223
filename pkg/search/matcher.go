package search

import "strings"

// Rank orders how well a title matches a query, lower is better.
type Rank int

const (
	RankExact Rank = iota
	RankPrefix
	RankTitle
	RankOther
)

// Matcher answers containment questions for one search term. A nil Matcher
// matches everything.
type Matcher struct {
	phrase string
	tokens TokenList
}

// NewMatcher returns nil when query has no searchable characters.
func NewMatcher(query string) *Matcher {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	return &Matcher{
		phrase: Normalize(query),
		tokens: tokens,
	}
}

// Match reports whether every query token occurs in the title or the
// description.
func (m *Matcher) Match(title, description string) bool {
	if m == nil {
		return true
	}
	text := Normalize(title)
	if description != "" {
		text += " " + Normalize(description)
	}
	for _, token := range m.tokens {
		if !strings.Contains(text, string(token)) {
			return false
		}
	}
	return true
}

func (m *Matcher) Rank(title string) Rank {
	if m == nil {
		return RankOther
	}
	normalized := Normalize(title)
	switch {
	case normalized == m.phrase:
		return RankExact
	case strings.HasPrefix(normalized, m.phrase):
		return RankPrefix
	case strings.Contains(normalized, m.phrase):
		return RankTitle
	}
	for _, token := range m.tokens {
		if !strings.Contains(normalized, string(token)) {
			return RankOther
		}
	}
	return RankTitle
}
