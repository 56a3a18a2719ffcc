package suggest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/internal/logger"
	"github.com/bastiangx/wordcorrect/pkg/config"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var basket = []string{"apple", "banana", "grape", "orange"}

func newCorrector(t *testing.T, letters []string, opts Options, words ...string) *Corrector {
	t.Helper()
	l, err := dictionary.ParseLetters(letters)
	if err != nil {
		t.Fatal(err)
	}
	store, err := dictionary.NewStore(dictionary.Words(words...), dictionary.StoreOptions{Letters: l})
	if err != nil {
		t.Fatal(err)
	}
	opts.Logger = logger.NewWithConfig(io.Discard, "test", log.DebugLevel, false, false, log.TextFormatter)
	return NewCorrector(store, opts)
}

func TestAutocorrect(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)

	testCases := []struct {
		description string
		query       string
		keyboard    bool
		want        string
	}{
		{"dropped letter", "banan", true, "banana"},
		{"doubled letter", "applle", true, "apple"},
		{"substitution", "orenge", true, "orange"},
		{"dropped letter without keyboard", "banan", false, "banana"},
		{"substitution without keyboard", "orenge", false, "orange"},
		{"exact match", "grape", true, "grape"},
		{"upper case query", "BANAN", true, "banana"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			opts := DefaultQueryOptions()
			opts.UseKeyboard = tc.keyboard
			got, err := c.Autocorrect(dictionary.Word(tc.query), opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d results, want 1", len(got))
			}
			if got[0].Suggestion != tc.want {
				t.Errorf("Autocorrect(%q) = %q, want %q", tc.query, got[0].Suggestion, tc.want)
			}
			if got[0].Query != tc.query {
				t.Errorf("Query = %q, want %q", got[0].Query, tc.query)
			}
		})
	}
}

func TestAutocorrectExactMatchBonus(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)
	for _, w := range basket {
		got, err := c.Autocorrect(dictionary.Word(w), DefaultQueryOptions())
		if err != nil {
			t.Fatal(err)
		}
		if got[0].Suggestion != w {
			t.Errorf("Autocorrect(%q) = %q", w, got[0].Suggestion)
		}
		if got[0].Score <= exactMatchBonus {
			t.Errorf("Autocorrect(%q) score = %v, want > %v", w, got[0].Score, exactMatchBonus)
		}
		if got[0].Tau != 0.8 {
			t.Errorf("Autocorrect(%q) tau = %v, want 0.8", w, got[0].Tau)
		}
	}
}

func TestAutocorrectDisplayForm(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), "Paris", "London", "Berlin")
	got, err := c.Autocorrect(dictionary.Word("pariss"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Suggestion != "Paris" {
		t.Errorf("Autocorrect(pariss) = %q, want Paris", got[0].Suggestion)
	}
}

func TestAutocorrectFallback(t *testing.T) {
	// "ba" shares only "ab" and " a" with the 12 grams of xyzab.
	c := newCorrector(t, nil, DefaultOptions(), "xyzab")

	testCases := []struct {
		description string
		keyboard    bool
	}{
		{"with keyboard", true},
		{"without keyboard", false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			opts := DefaultQueryOptions()
			opts.UseKeyboard = tc.keyboard
			got, err := c.Autocorrect(dictionary.Word("ba"), opts)
			if err != nil {
				t.Fatal(err)
			}
			r := got[0]
			if r.Suggestion != "xyzab" || r.Candidates != 1 {
				t.Fatalf("Autocorrect(ba) = %+v, want xyzab from 1 candidate", r)
			}
			if math.Abs(r.Jaccard-1.0/6) > 1e-9 {
				t.Errorf("Jaccard = %v, want 1/6", r.Jaccard)
			}
			if r.Score != r.Jaccard {
				t.Errorf("Score = %v, want the Jaccard %v", r.Score, r.Jaccard)
			}
			if r.Tau != fallbackTau {
				t.Errorf("Tau = %v, want %v", r.Tau, fallbackTau)
			}
		})
	}
}

func TestLengthPenalty(t *testing.T) {
	testCases := []struct {
		word  string
		query string
		want  float64
	}{
		{"apple", "apple", 1},
		{"abcd", "ab", 0},
		{"ab", "abcd", 0.75},
		{"xyzab", "ba", -1.25},
		{"café", "cafe", 1},
	}
	for _, tc := range testCases {
		if got := lengthPenalty(tc.word, tc.query); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("lengthPenalty(%q, %q) = %v, want %v", tc.word, tc.query, got, tc.want)
		}
	}
}

func TestTop3NegativeScore(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), "xyzab")

	opts := DefaultQueryOptions()
	opts.UseKeyboard = false
	got, err := c.Top3(dictionary.Word("ba"), opts)
	if err != nil {
		t.Fatal(err)
	}
	r := got[0]
	if r.Suggestions != [TopK]string{"xyzab", "", ""} {
		t.Fatalf("Suggestions = %q", r.Suggestions)
	}
	want := (1.0/6 + DefaultAlpha) * (1 - 1.5*1.5)
	if math.Abs(r.Scores[0]-want) > 1e-9 {
		t.Errorf("Scores[0] = %v, want %v", r.Scores[0], want)
	}

	got, err = c.Top3(dictionary.Word("ba"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Suggestions[0] != "xyzab" || got[0].Scores[0] >= 0 {
		t.Errorf("with keyboard: %q %v, want xyzab with a negative score", got[0].Suggestions, got[0].Scores)
	}
}

// TestTop3Shortlist puts the exact match last behind 100 frequent words so
// its base score ranks below the shortlist cut, while a large beta would
// make it win any full rescoring.
func TestTop3Shortlist(t *testing.T) {
	const letters = "efghijklmn"
	words := make([]string, 0, 101)
	for i := 0; i < 100; i++ {
		words = append(words, fmt.Sprintf("abcd%c%c", letters[i/10], letters[i%10]))
	}
	words = append(words, "abcd")
	c := newCorrector(t, nil, Options{Alpha: 10, Beta: 100}, words...)

	top, err := c.Top3(dictionary.Word("abcd"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if top[0].Candidates != len(words) {
		t.Errorf("Candidates = %d, want %d", top[0].Candidates, len(words))
	}
	for _, s := range top[0].Suggestions {
		if s == "abcd" {
			t.Errorf("abcd ranked outside the first %d yet was suggested: %q", ShortlistSize, top[0].Suggestions)
		}
	}

	best, err := c.Autocorrect(dictionary.Word("abcd"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if best[0].Suggestion != "abcd" {
		t.Errorf("Autocorrect(abcd) = %q, want the exact match", best[0].Suggestion)
	}
}

func TestInvalidQueries(t *testing.T) {
	c := newCorrector(t, []string{"a-z"}, DefaultOptions(), basket...)

	testCases := []struct {
		description   string
		returnInvalid bool
		wantCorrect   string
		wantLine      string
	}{
		{"echo invalid", true, "b4nana", "b4nana  "},
		{"drop invalid", false, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			opts := DefaultQueryOptions()
			opts.ReturnInvalid = tc.returnInvalid

			corr, err := c.Autocorrect(dictionary.Word("b4nana"), opts)
			if err != nil {
				t.Fatal(err)
			}
			if corr[0].Suggestion != tc.wantCorrect || corr[0].Score != 0 || !corr[0].Invalid {
				t.Errorf("Autocorrect = %+v, want suggestion %q with score 0", corr[0], tc.wantCorrect)
			}

			top, err := c.Top3(dictionary.Word("b4nana"), opts)
			if err != nil {
				t.Fatal(err)
			}
			if line := top[0].Line(); line != tc.wantLine {
				t.Errorf("Top3 line = %q, want %q", line, tc.wantLine)
			}
			if top[0].Scores != [TopK]float64{} {
				t.Errorf("Top3 scores = %v, want zeros", top[0].Scores)
			}
		})
	}
}

func TestNoCandidates(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)

	got, err := c.Autocorrect(dictionary.Words("zz", "x"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i, q := range []string{"zz", "x"} {
		if got[i].Suggestion != q || got[i].Candidates != 0 || got[i].Invalid {
			t.Errorf("result %d = %+v, want echoed %q", i, got[i], q)
		}
	}
}

func TestTop3(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)

	got, err := c.Top3(dictionary.Word("banan"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	r := got[0]
	if r.Suggestions[0] != "banana" {
		t.Errorf("first suggestion = %q, want banana", r.Suggestions[0])
	}
	seen := map[string]bool{}
	for i, s := range r.Suggestions {
		if s == "" {
			continue
		}
		if seen[s] {
			t.Errorf("duplicate suggestion %q", s)
		}
		seen[s] = true
		if i > 0 && r.Scores[i] > r.Scores[i-1] {
			t.Errorf("scores not descending: %v", r.Scores)
		}
	}
	if r.Candidates != 4 {
		t.Errorf("Candidates = %d, want 4", r.Candidates)
	}
}

func TestTop3Padding(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), "cat", "car")

	got, err := c.Top3(dictionary.Word("cat"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	r := got[0]
	if r.Suggestions != [TopK]string{"cat", "car", ""} {
		t.Errorf("Suggestions = %q", r.Suggestions)
	}
	if r.Scores[0] <= exactMatchBonus || r.Scores[2] != 0 {
		t.Errorf("Scores = %v", r.Scores)
	}
	if line := r.Line(); line != "cat car " {
		t.Errorf("Line() = %q", line)
	}
}

func TestTop3DedupesDisplay(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), "Apple", "apple", "apply", "ample")

	got, err := c.Top3(dictionary.Word("appel"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, s := range got[0].Suggestions {
		if s != "" && seen[s] {
			t.Errorf("duplicate suggestion %q in %q", s, got[0].Suggestions)
		}
		seen[s] = true
	}
}

func TestRemoveAndAdd(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)

	removed, err := c.RemoveWords(dictionary.Word("banana"))
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 1 || removed[0] != "banana" {
		t.Fatalf("RemoveWords = %q", removed)
	}

	got, err := c.Autocorrect(dictionary.Word("banan"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Suggestion == "banana" {
		t.Errorf("removed word still suggested")
	}
	top, err := c.Top3(dictionary.Word("banan"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range top[0].Suggestions {
		if s == "banana" {
			t.Errorf("removed word still in top3: %q", top[0].Suggestions)
		}
	}

	if _, err := c.AddWords(dictionary.Word("Banana")); err != nil {
		t.Fatal(err)
	}
	got, err = c.Autocorrect(dictionary.Word("banan"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Suggestion != "Banana" {
		t.Errorf("Autocorrect(banan) after add = %q, want Banana", got[0].Suggestion)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestOutput(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)
	queries := dictionary.Words("banan", "applle", "orenge")

	var buf bytes.Buffer
	opts := DefaultQueryOptions()
	opts.Output = &buf
	if _, err := c.Autocorrect(queries, opts); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "banana\napple\norange" {
		t.Errorf("autocorrect output = %q", got)
	}

	buf.Reset()
	quiet := opts
	quiet.ReturnInvalid = false
	if _, err := c.Top3(dictionary.Word("zz"), quiet); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "" {
		t.Errorf("top3 output for no candidates = %q", got)
	}

	opts.Output = failingWriter{}
	if _, err := c.Autocorrect(queries, opts); err == nil {
		t.Error("expected write error")
	}
	if _, err := c.Top3(queries, opts); err == nil {
		t.Error("expected write error")
	}
}

func TestQueriesFromFile(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), basket...)
	path := filepath.Join(t.TempDir(), "queries.txt")
	if err := os.WriteFile(path, []byte("banan\n\napplle\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := c.Autocorrect(dictionary.FilePath(path), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Suggestion != "banana" || got[1].Suggestion != "apple" {
		t.Errorf("Autocorrect(file) = %+v", got)
	}

	if _, err := c.Autocorrect(dictionary.FilePath(filepath.Join(t.TempDir(), "missing.txt")), DefaultQueryOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestCache(t *testing.T) {
	opts := DefaultOptions()
	opts.CacheSize = 2
	c := newCorrector(t, nil, opts, basket...)

	for i := 0; i < 2; i++ {
		if _, err := c.Autocorrect(dictionary.Word("banan"), DefaultQueryOptions()); err != nil {
			t.Fatal(err)
		}
	}
	stats := c.Stats()
	if stats["cacheHits"] != 1 || stats["cacheMisses"] != 1 || stats["cacheEntries"] != 1 {
		t.Errorf("cache stats after repeat = %v", stats)
	}

	if _, err := c.Top3(dictionary.Words("applle", "orenge"), DefaultQueryOptions()); err != nil {
		t.Fatal(err)
	}
	if n := c.cache.Len(); n != 2 {
		t.Errorf("cache len = %d, want 2 after eviction", n)
	}

	c.SetWeights(0.3, 0.4)
	if n := c.cache.Len(); n != 0 {
		t.Errorf("cache len = %d after SetWeights, want 0", n)
	}
	if a, b := c.Weights(); a != 0.3 || b != 0.4 {
		t.Errorf("Weights() = %v, %v", a, b)
	}
}

func TestResultCacheEvictsLRU(t *testing.T) {
	rc := NewResultCache(2)
	rc.Put("a", 1)
	rc.Put("b", 2)
	rc.Get("a")
	rc.Put("c", 3)

	if _, ok := rc.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := rc.Get(k); !ok {
			t.Errorf("%s missing", k)
		}
	}
}

func TestComplete(t *testing.T) {
	c := newCorrector(t, nil, DefaultOptions(), "apple", "banana", "apricot", "application", "Apex", "ap")

	testCases := []struct {
		description string
		prefix      string
		limit       int
		want        []Suggestion
	}{
		{"all by rank", "ap", 0, []Suggestion{{"apple", 1}, {"apricot", 3}, {"application", 4}, {"Apex", 5}}},
		{"limit", "ap", 2, []Suggestion{{"apple", 1}, {"apricot", 3}}},
		{"capitalized prefix", "Ap", 2, []Suggestion{{"Apple", 1}, {"Apricot", 3}}},
		{"no match", "zz", 0, []Suggestion{}},
		{"empty prefix", "", 0, []Suggestion{}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := c.Complete(tc.prefix, tc.limit)
			if len(got) != len(tc.want) {
				t.Fatalf("Complete(%q) = %v, want %v", tc.prefix, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Complete(%q)[%d] = %v, want %v", tc.prefix, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fruit.txt"), []byte("apple\nbanana\ngrape\norange\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Dict.Dir = dir
	cfg.Dict.Source = "fruit"
	cfg.Engine.Hasher = "metro"
	cfg.Keyboard.Layout = "dvorak"

	c, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Store().Len() != 4 || c.Metric().Layout().Name != "dvorak" {
		t.Errorf("store len = %d, layout = %s", c.Store().Len(), c.Metric().Layout().Name)
	}
	got, err := c.Autocorrect(dictionary.Word("banan"), DefaultQueryOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Suggestion != "banana" {
		t.Errorf("Autocorrect(banan) = %q", got[0].Suggestion)
	}

	cfg.Engine.Precision = 20
	if _, err := NewFromConfig(cfg); err == nil {
		t.Error("expected precision error")
	}
}
