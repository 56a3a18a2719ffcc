package utils

// SuggestionFilter drops repeated suggestions. Words are compared exactly, so
// "Apple" and "apple" are distinct. Not safe for concurrent use.
type SuggestionFilter struct {
	seenWords map[string]struct{}
}

// NewSuggestionFilter creates a filter that already treats exclude as seen.
func NewSuggestionFilter(exclude ...string) *SuggestionFilter {
	seen := make(map[string]struct{}, len(exclude)+3)
	for _, w := range exclude {
		seen[w] = struct{}{}
	}
	return &SuggestionFilter{seenWords: seen}
}

// ShouldInclude reports whether word is new and marks it as seen.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	if _, ok := f.seenWords[word]; ok {
		return false
	}
	f.seenWords[word] = struct{}{}
	return true
}

// Len is the number of words seen so far, excluded ones included.
func (f *SuggestionFilter) Len() int {
	return len(f.seenWords)
}
