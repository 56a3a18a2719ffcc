// Package suggest picks the closest dictionary words for possibly misspelled
// queries. Candidates share at least one q-gram with the query; they are
// ranked by Jaccard similarity, frequency bucket, length and keyboard
// distance.
package suggest

import "github.com/bastiangx/wordcorrect/pkg/dictionary"

// ICorrector defines the interface for correction engines
type ICorrector interface {
	// Autocorrect returns the single best suggestion per query
	Autocorrect(queries dictionary.Source, opts QueryOptions) ([]Correction, error)

	// Top3 returns up to three distinct suggestions per query
	Top3(queries dictionary.Source, opts QueryOptions) ([]TopSuggestions, error)

	// Complete lists live dictionary words starting with prefix, most frequent first
	Complete(prefix string, limit int) []Suggestion

	// AddWords and RemoveWords edit the dictionary in place
	AddWords(src dictionary.Source) ([]string, error)
	RemoveWords(src dictionary.Source) ([]string, error)

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}

var _ ICorrector = (*Corrector)(nil)
