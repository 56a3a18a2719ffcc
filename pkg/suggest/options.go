package suggest

import (
	"io"
	"strings"
)

const (
	DefaultAlpha = 0.2
	DefaultBeta  = 0.35

	// ShortlistSize is how many candidates Top3 re-scores with the keyboard.
	ShortlistSize = 30

	// TopK is the number of suggestions Top3 returns.
	TopK = 3

	// fallbackTau is reported when no candidate passes any threshold.
	fallbackTau = 0.4

	exactMatchBonus = 1.0
)

// Thresholds are the Jaccard cut-offs swept by Autocorrect, strictest first.
var Thresholds = []float64{0.8, 0.7, 0.6, 0.5, 0.4}

// QueryOptions controls one Autocorrect or Top3 call.
type QueryOptions struct {
	// UseKeyboard adds the keyboard-weighted edit distance to the score.
	UseKeyboard bool
	// ReturnInvalid echoes queries that are invalid or have no candidates;
	// otherwise they get an empty suggestion.
	ReturnInvalid bool
	// Details logs per-gram estimates and the picked candidate per query.
	Details bool
	// Output receives one line per query. Nil means no output.
	Output io.Writer
}

// DefaultQueryOptions uses the keyboard and echoes invalid queries.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{UseKeyboard: true, ReturnInvalid: true}
}

// Correction is the Autocorrect result for one query.
type Correction struct {
	Query      string  `json:"query" msgpack:"q"`
	Suggestion string  `json:"suggestion" msgpack:"s"`
	Score      float64 `json:"score" msgpack:"sc"`
	// Tau and Jaccard describe the pick. Both are zero when the query was
	// invalid or had no candidates.
	Tau        float64 `json:"tau,omitempty" msgpack:"t,omitempty"`
	Jaccard    float64 `json:"jaccard,omitempty" msgpack:"j,omitempty"`
	Candidates int     `json:"candidates" msgpack:"c"`
	Invalid    bool    `json:"invalid,omitempty" msgpack:"i,omitempty"`
}

// TopSuggestions is the Top3 result for one query. Missing suggestions are
// empty strings scored 0.
type TopSuggestions struct {
	Query       string        `json:"query" msgpack:"q"`
	Suggestions [TopK]string  `json:"suggestions" msgpack:"s"`
	Scores      [TopK]float64 `json:"scores" msgpack:"sc"`
	Candidates  int           `json:"candidates" msgpack:"c"`
	Invalid     bool          `json:"invalid,omitempty" msgpack:"i,omitempty"`
}

// Line is the output form: the suggestions joined by single spaces, or an
// empty line when there are none at all.
func (t TopSuggestions) Line() string {
	if t.Suggestions == [TopK]string{} {
		return ""
	}
	return strings.Join(t.Suggestions[:], " ")
}

// Suggestion is a prefix completion.
type Suggestion struct {
	Word string `json:"word" msgpack:"w"`
	Rank int    `json:"rank" msgpack:"r"`
}
