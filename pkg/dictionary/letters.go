package dictionary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrInvalidLetters is returned for a valid-letters entry that is neither a
// known range nor a single non-space character.
var ErrInvalidLetters = errors.New("invalid letters entry")

// Letters is the set of characters dictionary words and queries may contain.
// A nil or empty Letters accepts everything.
type Letters struct {
	set mapset.Set[rune]
}

// ParseLetters builds a set from entries such as "a-z", "0-9" or single
// characters like "é". Single characters are lowercased.
func ParseLetters(entries []string) (*Letters, error) {
	set := mapset.NewThreadUnsafeSet[rune]()
	for _, entry := range entries {
		switch {
		case entry == "a-z":
			for r := 'a'; r <= 'z'; r++ {
				set.Add(r)
			}
		case entry == "0-9":
			for r := '0'; r <= '9'; r++ {
				set.Add(r)
			}
		case utf8.RuneCountInString(entry) == 1 && entry != " ":
			r, _ := utf8.DecodeRuneInString(entry)
			set.Add(unicode.ToLower(r))
		default:
			return nil, fmt.Errorf("%w: %q (want \"a-z\", \"0-9\" or a single non-space character)", ErrInvalidLetters, entry)
		}
	}
	return &Letters{set: set}, nil
}

// Empty reports whether no restriction applies.
func (l *Letters) Empty() bool {
	return l == nil || l.set == nil || l.set.Cardinality() == 0
}

// Valid reports whether every character of word, lowercased, is allowed.
func (l *Letters) Valid(word string) bool {
	if l.Empty() {
		return true
	}
	for _, r := range strings.ToLower(word) {
		if !l.set.Contains(r) {
			return false
		}
	}
	return true
}

// String lists the allowed characters in sorted order.
func (l *Letters) String() string {
	if l.Empty() {
		return "*"
	}
	runes := l.set.ToSlice()
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}
