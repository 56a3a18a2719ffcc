package suggest

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/internal/utils"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
)

type scored struct {
	cand  candidate
	score float64
}

// Top3 returns up to three distinct display suggestions for every query in
// src, in order.
func (c *Corrector) Top3(queries dictionary.Source, opts QueryOptions) ([]TopSuggestions, error) {
	wl, err := dictionary.Load(queries, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]TopSuggestions, 0, wl.Len())
	lines := make([]string, 0, wl.Len())
	for i, q := range wl.Words {
		r := c.cachedTop3(q, wl.Originals[i], opts)
		results = append(results, r)
		lines = append(lines, r.Line())
	}
	log.Debugf("Top3 processing: %d queries in %v", len(results), time.Since(start))

	if err := writeLines(opts.Output, lines); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Corrector) cachedTop3(query, original string, opts QueryOptions) TopSuggestions {
	if c.cache == nil || opts.Details {
		return c.top3(query, original, opts)
	}
	key := cacheKey("t", original, opts)
	if v, ok := c.cache.Get(key); ok {
		return v.(TopSuggestions)
	}
	r := c.top3(query, original, opts)
	c.cache.Put(key, r)
	return r
}

func (c *Corrector) top3(query, original string, opts QueryOptions) TopSuggestions {
	res := TopSuggestions{Query: original}
	if !c.store.IsValid(query) {
		res.Invalid = true
		if opts.ReturnInvalid {
			res.Suggestions[0] = original
		}
		return res
	}
	if opts.Details {
		c.logGrams(query)
	}

	cands := c.candidates(query)
	res.Candidates = len(cands)
	if len(cands) == 0 {
		if opts.ReturnInvalid {
			res.Suggestions[0] = original
		}
		return res
	}

	list := make([]scored, len(cands))
	for i, cand := range cands {
		list[i] = scored{cand: cand, score: c.baseScore(query, cand)}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })
	if len(list) > ShortlistSize {
		list = list[:ShortlistSize]
	}

	for i := range list {
		word := c.store.Word(list[i].cand.idx)
		if opts.UseKeyboard {
			list[i].score += c.beta * c.normDist(query, word)
		}
		list[i].score += matchBonus(query, word)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	seen := utils.NewSuggestionFilter()
	n := 0
	for _, s := range list {
		if n == TopK {
			break
		}
		display := c.display(s.cand.idx)
		if !seen.ShouldInclude(display) {
			continue
		}
		res.Suggestions[n] = display
		res.Scores[n] = s.score
		n++
	}

	if opts.Details {
		c.log.Info("top3", "query", original, "suggestions", res.Suggestions, "scores", res.Scores)
	}
	return res
}
