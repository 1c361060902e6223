package search

import (
	"cmp"
	"slices"
	"strings"
)

type Trie struct {
	Root *Node
}

type Node struct {
	Children map[rune]*Node
	IsLeaf   bool
	Hits     int
}

func NewTrie() *Trie {
	return &Trie{
		Root: &Node{
			Children: make(map[rune]*Node),
		},
	}
}

// Insert adds word and counts one more hit for it.
func (t *Trie) Insert(word Token) {
	if word == "" {
		return
	}
	node := t.Root
	for _, r := range word {
		if _, ok := node.Children[r]; !ok {
			node.Children[r] = &Node{
				Children: make(map[rune]*Node),
			}
		}
		node = node.Children[r]
	}
	node.IsLeaf = true
	node.Hits++
}

func (t *Trie) find(prefix Token) *Node {
	node := t.Root
	for _, r := range prefix {
		next, ok := node.Children[r]
		if !ok {
			return nil
		}
		node = next
	}
	return node
}

func (t *Trie) Search(word Token) bool {
	node := t.find(word)
	return node != nil && node.IsLeaf
}

type Match struct {
	Word string `json:"match"`
	Hits int    `json:"hits"`
}

// FindMatches returns every word starting with prefix, most hits first.
func (t *Trie) FindMatches(prefix Token) []Match {
	node := t.find(prefix)
	if node == nil {
		return nil
	}
	matches := collect(node, []rune(prefix), nil)
	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Hits, a.Hits); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	return matches
}

func collect(node *Node, word []rune, matches []Match) []Match {
	if node.IsLeaf {
		matches = append(matches, Match{Word: string(word), Hits: node.Hits})
	}
	for r, child := range node.Children {
		matches = collect(child, append(word, r), matches)
	}
	return matches
}
