package search

// Suggester completes the last word of a query term from the words of the
// product titles.
type Suggester struct {
	trie *Trie
}

func NewSuggester(titles []string) *Suggester {
	trie := NewTrie()
	for _, title := range titles {
		seen := map[Token]struct{}{}
		for _, token := range Tokenize(title) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			trie.Insert(token)
		}
	}
	return &Suggester{trie: trie}
}

// Suggest returns at most limit completions of the last word of query.
// Hits count the titles containing the word.
func (s *Suggester) Suggest(query string, limit int) []Match {
	tokens := Tokenize(query)
	if s == nil || len(tokens) == 0 {
		return []Match{}
	}
	matches := s.trie.FindMatches(tokens[len(tokens)-1])
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		return []Match{}
	}
	return matches
}
