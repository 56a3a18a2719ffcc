package suggest

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hbollon/go-edlib"

	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/qgram"
)

// candidate is a live dictionary word sharing at least one gram with the query.
type candidate struct {
	idx     int
	jaccard float64
	weight  float64
}

// candidates scans every live bit-vector for a non-empty intersection with
// the query's fuzzier grams.
func (c *Corrector) candidates(query string) []candidate {
	index := c.store.Index()
	qb := index.QueryBits(query)
	qCount := qb.Count()
	if qCount == 0 {
		return nil
	}

	var out []candidate
	for idx := 0; idx < index.Len(); idx++ {
		if c.store.IsRemoved(idx) {
			continue
		}
		wb := index.Bits(idx)
		inter := wb.AndCount(qb)
		if inter == 0 {
			continue
		}
		union := qCount + wb.Count() - inter
		out = append(out, candidate{
			idx:     idx,
			jaccard: float64(inter) / float64(union),
			weight:  c.store.Weight(idx),
		})
	}
	return out
}

// lengthPenalty is 1 - (|len(word)-len(query)| / len(query))^2 over runes.
// It is not clamped and goes negative for large length mismatches.
func lengthPenalty(word, query string) float64 {
	lq := utf8.RuneCountInString(query)
	d := float64(utf8.RuneCountInString(word) - lq)
	if d < 0 {
		d = -d
	}
	r := d / float64(lq)
	return 1 - r*r
}

// normDist maps the keyboard edit distance into (0, 1].
func (c *Corrector) normDist(query, word string) float64 {
	return 1 / (1 + c.metric.WeightedEditDistance(query, word))
}

func matchBonus(query, word string) float64 {
	if query == word {
		return exactMatchBonus
	}
	return 0
}

// baseScore is (J + alpha*R) * lengthPenalty.
func (c *Corrector) baseScore(query string, cand candidate) float64 {
	word := c.store.Word(cand.idx)
	return (cand.jaccard + c.alpha*cand.weight) * lengthPenalty(word, query)
}

func (c *Corrector) display(idx int) string {
	word := c.store.Word(idx)
	if d, ok := c.store.Display(word); ok {
		return d
	}
	return word
}

// Autocorrect returns the best suggestion for every query in src, in order.
func (c *Corrector) Autocorrect(queries dictionary.Source, opts QueryOptions) ([]Correction, error) {
	wl, err := dictionary.Load(queries, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]Correction, 0, wl.Len())
	lines := make([]string, 0, wl.Len())
	for i, q := range wl.Words {
		r := c.cachedCorrect(q, wl.Originals[i], opts)
		results = append(results, r)
		lines = append(lines, r.Suggestion)
	}
	log.Debugf("Query processing: %d queries in %v", len(results), time.Since(start))

	if err := writeLines(opts.Output, lines); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Corrector) cachedCorrect(query, original string, opts QueryOptions) Correction {
	if c.cache == nil || opts.Details {
		return c.correct(query, original, opts)
	}
	key := cacheKey("a", original, opts)
	if v, ok := c.cache.Get(key); ok {
		return v.(Correction)
	}
	r := c.correct(query, original, opts)
	c.cache.Put(key, r)
	return r
}

func (c *Corrector) correct(query, original string, opts QueryOptions) Correction {
	res := Correction{Query: original}
	if opts.ReturnInvalid {
		res.Suggestion = original
	}

	if !c.store.IsValid(query) {
		res.Invalid = true
		return res
	}
	if opts.Details {
		c.logGrams(query)
	}

	cands := c.candidates(query)
	res.Candidates = len(cands)
	if len(cands) == 0 {
		if opts.Details {
			c.log.Info("no overlaps", "query", original, "returning", res.Suggestion)
		}
		return res
	}

	// Every candidate passing the loosest threshold is scored once; the
	// sweep then keeps the strict maximum over all thresholds.
	loosest := Thresholds[len(Thresholds)-1]
	scores := make([]float64, len(cands))
	for i, cand := range cands {
		if cand.jaccard < loosest {
			continue
		}
		word := c.store.Word(cand.idx)
		norm := 1.0
		if opts.UseKeyboard {
			norm = c.normDist(query, word)
		}
		scores[i] = c.baseScore(query, cand) + norm*c.beta + matchBonus(query, word)
	}

	best, bestScore, bestTau := -1, -1.0, 0.0
	for _, tau := range Thresholds {
		for i, cand := range cands {
			if cand.jaccard < tau {
				continue
			}
			if scores[i] > bestScore {
				best, bestScore, bestTau = i, scores[i], tau
			}
		}
	}

	if best < 0 {
		best = 0
		for i, cand := range cands {
			if cand.jaccard > cands[best].jaccard {
				best = i
			}
		}
		bestScore, bestTau = cands[best].jaccard, fallbackTau
	}

	picked := cands[best]
	res.Suggestion = c.display(picked.idx)
	res.Score = bestScore
	res.Tau = bestTau
	res.Jaccard = picked.jaccard

	if opts.Details {
		word := c.store.Word(picked.idx)
		c.log.Info("picked",
			"query", original,
			"word", word,
			"tau", bestTau,
			"jaccard", picked.jaccard,
			"score", bestScore,
			"levenshtein", edlib.LevenshteinDistance(query, word),
		)
	}
	return res
}

// logGrams logs the sketch estimate of every distinct fuzzier gram of query.
func (c *Corrector) logGrams(query string) {
	grams := mapset.NewThreadUnsafeSet(qgram.Extract(query, true)...).ToSlice()
	sort.Strings(grams)

	parts := make([]string, len(grams))
	for i, g := range grams {
		parts[i] = fmt.Sprintf("%q(%.0f)", g, c.Estimate(g))
	}
	c.log.Info("qgrams", "query", query, "estimates", strings.Join(parts, " "))
}

// writeLines writes lines joined by "\n". A nil writer writes nothing.
func writeLines(w io.Writer, lines []string) error {
	if w == nil {
		return nil
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
