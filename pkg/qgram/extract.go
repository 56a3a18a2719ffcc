// Package qgram extracts character bigrams and indexes which dictionary words
// contain which bigrams.
package qgram

// Q is the gram length. Only bigrams are supported.
const Q = 2

// Extract returns the bigram multiset of word. Each window "xy" yields "xy"
// twice plus the half-empty grams "x " and " y"; with fuzzier set the swapped
// window "yx" is added so transpositions still overlap. Words shorter than Q
// have no grams.
func Extract(word string, fuzzier bool) []string {
	runes := []rune(word)
	if len(runes) < Q {
		return nil
	}

	per := 4
	if fuzzier {
		per = 5
	}
	grams := make([]string, 0, (len(runes)-Q+1)*per)
	for i := 0; i+Q <= len(runes); i++ {
		c0, c1 := runes[i], runes[i+1]
		gram := string([]rune{c0, c1})
		grams = append(grams, gram, gram, string([]rune{c0, ' '}), string([]rune{' ', c1}))
		if fuzzier {
			grams = append(grams, string([]rune{c1, c0}))
		}
	}
	return grams
}

// sketchKey is the composite item inserted into a gram's sketch.
func sketchKey(gram, word string) string {
	return gram + "_" + word
}
