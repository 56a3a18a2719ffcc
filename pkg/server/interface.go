/*
Package server exposes a Corrector over msgpack IPC and over HTTP/JSON.

# IPC

The IPC server reads a stream of msgpack-encoded requests from stdin and writes
one msgpack response per request to stdout. Logs go to stderr. Every request
carries an ID, echoed in its response, and an action:

	{"id": "r1", "a": "correct", "w": ["banan", "applle"]}
	{"id": "r2", "a": "top3", "w": ["banan"], "k": false}
	{"id": "r3", "a": "complete", "p": "ban", "l": 10}
	{"id": "r4", "a": "add", "w": ["banana"]}
	{"id": "r5", "a": "remove", "w": ["banana"]}
	{"id": "r6", "a": "config", "alpha": 0.3, "beta": 0.4}
	{"id": "r7", "a": "stats"}

Correction responses carry one result per query, in order, plus timing in
microseconds:

	{"id": "r1", "r": [{"q": "banan", "s": "banana", "sc": 2.1, ...}], "c": 2, "t": 145}

Failed requests get a CompletionError with an HTTP-like code.

# HTTP

The HTTP server serves the same operations as JSON:

	POST /v1/correct   {"words": ["banan"], "keyboard": true}
	POST /v1/top3      {"words": ["banan"]}
	GET  /v1/complete?prefix=ban&limit=10
	POST /v1/words     {"words": ["banana"]}
	DELETE /v1/words   {"words": ["banana"]}
	PATCH /v1/config   {"alpha": 0.3}
	GET  /v1/stats
	GET  /health

Both servers serialize access to the Corrector.
*/
package server

import (
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

// Actions understood by the IPC server.
const (
	ActionCorrect  = "correct"
	ActionTop3     = "top3"
	ActionComplete = "complete"
	ActionAdd      = "add"
	ActionRemove   = "remove"
	ActionConfig   = "config"
	ActionStats    = "stats"
	ActionHealth   = "health"
)

// Request is the envelope for every IPC message. Fields not used by the
// action are ignored.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"a"`
	Words  []string `msgpack:"w,omitempty"`
	Prefix string   `msgpack:"p,omitempty"`
	Limit  int      `msgpack:"l,omitempty"`

	// Per-request overrides of the configured query flags.
	Keyboard      *bool `msgpack:"k,omitempty"`
	ReturnInvalid *bool `msgpack:"ri,omitempty"`

	// config action only
	Alpha *float64 `msgpack:"alpha,omitempty"`
	Beta  *float64 `msgpack:"beta,omitempty"`
	Save  bool     `msgpack:"save,omitempty"`
}

// CorrectionResponse answers a correct request
type CorrectionResponse struct {
	ID        string               `msgpack:"id"`
	Results   []suggest.Correction `msgpack:"r"`
	Count     int                  `msgpack:"c"`
	TimeTaken int64                `msgpack:"t"`
}

// Top3Response answers a top3 request
type Top3Response struct {
	ID        string                   `msgpack:"id"`
	Results   []suggest.TopSuggestions `msgpack:"r"`
	Count     int                      `msgpack:"c"`
	TimeTaken int64                    `msgpack:"t"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank int    `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// DictionaryResponse - add/remove response
type DictionaryResponse struct {
	ID      string                  `msgpack:"id"`
	Status  string                  `msgpack:"status"`
	Error   string                  `msgpack:"error,omitempty"`
	Summary *dictionary.EditSummary `msgpack:"summary,omitempty"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID     string  `msgpack:"id"`
	Status string  `msgpack:"status"`
	Error  string  `msgpack:"error,omitempty"`
	Alpha  float64 `msgpack:"alpha"`
	Beta   float64 `msgpack:"beta"`
}

// StatsResponse - dictionary and cache counters
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
