package suggest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// Complete returns live dictionary words starting with prefix, most frequent
// first. The prefix itself is not suggested. limit <= 0 means no limit.
func (c *Corrector) Complete(prefix string, limit int) []Suggestion {
	lowerPrefix := strings.ToLower(prefix)
	if lowerPrefix == "" {
		return []Suggestion{}
	}

	words, err := c.store.WithPrefix(lowerPrefix)
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return []Suggestion{}
	}

	suggestions := make([]Suggestion, 0, len(words))
	for _, w := range words {
		if w == lowerPrefix {
			continue
		}
		pos, ok := c.store.Position(w)
		if !ok {
			continue
		}
		suggestions = append(suggestions, Suggestion{Word: w, Rank: pos + 1})
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Rank < suggestions[j].Rank })
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	caps := capitalPositions(prefix)
	for i := range suggestions {
		display, _ := c.store.Display(suggestions[i].Word)
		if display == suggestions[i].Word {
			display = ApplyCapitalization(display, caps)
		}
		suggestions[i].Word = display
	}
	return suggestions
}

func capitalPositions(s string) []bool {
	var caps []bool
	found := false
	for _, r := range s {
		up := unicode.IsUpper(r)
		found = found || up
		caps = append(caps, up)
	}
	if !found {
		return nil
	}
	return caps
}

// ApplyCapitalization upper-cases the runes of word at the positions the
// user typed in upper case.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}
