package search

import (
	"testing"
)

func TestTokenizer(t *testing.T) {
	res := Tokenize("Hello world, how are you?")
	if len(res) != 5 {
		t.Errorf("Expected 5 tokens but got %d", len(res))
	}
	expected := TokenList{"hello", "world", "how", "are", "you"}
	for i, token := range expected {
		if res[i] != token {
			t.Errorf("Expected '%s' but got %s", token, res[i])
		}
	}
}

func TestTokenizerDeDuplication(t *testing.T) {
	res := Tokenize("Hello world, hello world hej hej world")
	if len(res) != 3 {
		t.Errorf("Expected 3 tokens but got %d", len(res))
	}
}

func TestNormalizeWordFoldsAccents(t *testing.T) {
	if got := NormalizeWord("Tröja!"); got != "troja" {
		t.Errorf("Expected troja, got %s", got)
	}
}

func TestNormalizeKeepsPhrase(t *testing.T) {
	if got := Normalize("  Blue   T-Shirt "); got != "blue t shirt" {
		t.Errorf("Expected 'blue t shirt', got '%s'", got)
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher("blue shirt")
	if !m.Match("Shirt", "A blue cotton shirt") {
		t.Error("Expected tokens to match across title and description")
	}
	if m.Match("Red shirt", "") {
		t.Error("Expected missing token to fail")
	}
	if NewMatcher("  !! ") != nil {
		t.Error("Expected empty query to give nil matcher")
	}
	var none *Matcher
	if !none.Match("anything", "") {
		t.Error("Expected nil matcher to match")
	}
}

func TestMatcherRank(t *testing.T) {
	m := NewMatcher("linen shirt")
	cases := map[string]Rank{
		"Linen Shirt":         RankExact,
		"Linen shirt, white":  RankPrefix,
		"Classic linen shirt": RankTitle,
		"Shirt in linen":      RankTitle,
		"Linen dress":         RankOther,
	}
	for title, want := range cases {
		if got := m.Rank(title); got != want {
			t.Errorf("Rank(%q) = %d, want %d", title, got, want)
		}
	}
}
