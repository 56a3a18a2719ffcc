package suggest

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/internal/logger"
	"github.com/bastiangx/wordcorrect/pkg/config"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/keyboard"
	"github.com/bastiangx/wordcorrect/pkg/sketch"
)

// Options configures a Corrector. Zero Alpha and Beta are kept as zero; use
// DefaultOptions for the usual weights.
type Options struct {
	Alpha  float64
	Beta   float64
	Metric *keyboard.Metric
	// CacheSize bounds the result cache; 0 disables it.
	CacheSize int
	// Logger receives per-query details. Defaults to a "suggest" logger.
	Logger *log.Logger
}

// DefaultOptions returns the default weights on a QWERTY keyboard.
func DefaultOptions() Options {
	return Options{Alpha: DefaultAlpha, Beta: DefaultBeta}
}

// Corrector answers queries against a dictionary store.
//
// A Corrector is not safe for concurrent use; servers serialize access.
type Corrector struct {
	store  *dictionary.Store
	metric *keyboard.Metric
	alpha  float64
	beta   float64
	cache  *ResultCache
	log    *log.Logger
}

// NewCorrector wraps store. A nil Metric uses the QWERTY layout.
func NewCorrector(store *dictionary.Store, opts Options) *Corrector {
	if opts.Metric == nil {
		layout, _ := keyboard.LayoutByName(keyboard.DefaultLayout)
		opts.Metric = keyboard.NewMetric(layout)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default("suggest")
	}
	c := &Corrector{
		store:  store,
		metric: opts.Metric,
		alpha:  opts.Alpha,
		beta:   opts.Beta,
		log:    opts.Logger,
	}
	if opts.CacheSize > 0 {
		c.cache = NewResultCache(opts.CacheSize)
	}
	return c
}

// NewFromConfig loads the configured dictionary and builds a Corrector.
func NewFromConfig(cfg *config.Config) (*Corrector, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sketchCfg, err := sketch.NewConfig(cfg.Engine.Precision)
	if err != nil {
		return nil, err
	}
	if cfg.Engine.SketchAlpha > 0 {
		sketchCfg = sketchCfg.WithAlpha(cfg.Engine.SketchAlpha)
	}
	hasher, err := sketch.NewHasher(cfg.Engine.Hasher)
	if err != nil {
		return nil, err
	}
	letters, err := dictionary.ParseLetters(cfg.Dict.ValidLetters)
	if err != nil {
		return nil, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	src, err := dictionary.NewLoader(cfg.Dict.Dir, cfg.Dict.Source, cfg.Dict.Addons).Source()
	if err != nil {
		return nil, err
	}
	store, err := dictionary.NewStore(src, dictionary.StoreOptions{
		Sketch:           sketchCfg,
		Hasher:           hasher,
		Letters:          letters,
		CompactThreshold: cfg.Dict.CompactThreshold,
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("Built corrector over %d words (layout %s, hasher %s) in %v",
		store.Len(), layout.Name, hasher.Name(), time.Since(start))
	return NewCorrector(store, Options{
		Alpha:     cfg.Engine.Alpha,
		Beta:      cfg.Engine.Beta,
		Metric:    keyboard.NewMetric(layout),
		CacheSize: cfg.Engine.CacheSize,
	}), nil
}

// Store returns the underlying dictionary store.
func (c *Corrector) Store() *dictionary.Store {
	return c.store
}

// Metric returns the keyboard metric used for scoring.
func (c *Corrector) Metric() *keyboard.Metric {
	return c.metric
}

// SetLogger redirects per-query details, e.g. to stderr when stdout carries
// IPC responses.
func (c *Corrector) SetLogger(l *log.Logger) {
	c.log = l
}

// SetWeights replaces alpha and beta. Cached results are dropped.
func (c *Corrector) SetWeights(alpha, beta float64) {
	c.alpha, c.beta = alpha, beta
	c.invalidate()
}

// Weights returns alpha and beta.
func (c *Corrector) Weights() (float64, float64) {
	return c.alpha, c.beta
}

// AddWords adds src to the dictionary and returns the new canonical words.
func (c *Corrector) AddWords(src dictionary.Source) ([]string, error) {
	added, err := c.store.Add(src)
	if err != nil {
		return nil, err
	}
	c.invalidate()
	return added, nil
}

// RemoveWords tombstones src and returns the words removed.
func (c *Corrector) RemoveWords(src dictionary.Source) ([]string, error) {
	removed, err := c.store.Remove(src)
	if err != nil {
		return nil, err
	}
	c.invalidate()
	return removed, nil
}

// Apply runs a batch of dictionary edits.
func (c *Corrector) Apply(edits dictionary.Edits) (dictionary.EditSummary, error) {
	summary, err := edits.Apply(c.store)
	c.invalidate()
	return summary, err
}

// Estimate is the sketch estimate for a q-gram. It is diagnostic only.
func (c *Corrector) Estimate(gram string) float64 {
	return c.store.Index().Estimate(gram)
}

func (c *Corrector) invalidate() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Stats returns statistics about the loaded dictionary
func (c *Corrector) Stats() map[string]int {
	stats := map[string]int{
		"words":      c.store.Len(),
		"live":       c.store.Live(),
		"tombstones": c.store.Len() - c.store.Live(),
		"grams":      c.store.Index().SketchCount(),
		"buckets":    c.store.NumBuckets(),
		"bucketSize": c.store.BucketSize(),
	}
	if c.cache != nil {
		for k, v := range c.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
