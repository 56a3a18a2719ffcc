package dictionary

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/bastiangx/wordcorrect/pkg/qgram"
	"github.com/bastiangx/wordcorrect/pkg/sketch"
)

// DefaultCompactThreshold is the tombstone ratio that triggers compaction.
const DefaultCompactThreshold = 0.1

// maxShift caps the rank boost of the most frequent bucket.
const maxShift = 64

// StoreOptions configures a Store. Zero values pick the defaults.
type StoreOptions struct {
	Sketch           *sketch.Config
	Hasher           sketch.Hasher
	Letters          *Letters
	CompactThreshold float64
}

// entry is what the trie holds per canonical word.
type entry struct {
	pos     int
	display string
}

// Store owns the word list and the q-gram index built from it. Word order is
// the frequency rank: callers must supply lists sorted most common first.
//
// A Store is not safe for concurrent use.
type Store struct {
	cfg       *sketch.Config
	hasher    sketch.Hasher
	letters   *Letters
	threshold float64

	words   []string
	trie    *patricia.Trie
	removed *roaring.Bitmap
	index   *qgram.Index

	bucketExp  int
	numBuckets int
	bucketSize int
}

// NewStore loads src, keeps the first position of every duplicate (the last
// spelling wins for display) and builds the index.
func NewStore(src Source, opts StoreOptions) (*Store, error) {
	if opts.Sketch == nil {
		cfg, err := sketch.NewConfig(sketch.DefaultPrecision)
		if err != nil {
			return nil, err
		}
		opts.Sketch = cfg
	}
	if opts.Hasher == nil {
		opts.Hasher = sketch.DefaultHasher()
	}
	if opts.CompactThreshold <= 0 {
		opts.CompactThreshold = DefaultCompactThreshold
	}

	wl, err := Load(src, opts.Letters)
	if err != nil {
		return nil, err
	}

	s := &Store{
		cfg:       opts.Sketch,
		hasher:    opts.Hasher,
		letters:   opts.Letters,
		threshold: opts.CompactThreshold,
		trie:      patricia.NewTrie(),
		removed:   roaring.New(),
	}
	for i, w := range wl.Words {
		if e, ok := s.lookup(w); ok {
			e.display = wl.Originals[i]
			continue
		}
		s.insert(w, wl.Originals[i])
	}

	log.Debugf("Loaded %d words (%d entries) from %s", len(s.words), wl.Len(), src)
	s.Rebuild()
	return s, nil
}

func (s *Store) lookup(word string) (*entry, bool) {
	if word == "" {
		return nil, false
	}
	item := s.trie.Get(patricia.Prefix(word))
	if item == nil {
		return nil, false
	}
	return item.(*entry), true
}

func (s *Store) insert(word, display string) {
	s.trie.Insert(patricia.Prefix(word), &entry{pos: len(s.words), display: display})
	s.words = append(s.words, word)
}

// bucketParams returns the exponent, bucket count and bucket size for n words.
func bucketParams(n int) (exp, numBuckets, bucketSize int) {
	if n <= 0 {
		return 0, 1, 1
	}
	exp = int(math.Ceil(math.Log2(float64(n)) / 2))
	numBuckets = 1 << exp
	bucketSize = (n + numBuckets - 1) / numBuckets
	return exp, numBuckets, bucketSize
}

// bucket is the 1-based bucket of the word at idx.
func (s *Store) bucket(idx int) int {
	return min(s.numBuckets, idx/s.bucketSize+1)
}

// Shift is the sketch rank boost of the word at idx: four per halving of the
// bucket number, capped at 64.
func (s *Store) Shift(idx int) int {
	ratio := float64(s.numBuckets) / float64(s.bucket(idx))
	return min(int(math.Floor(math.Log2(ratio)))*4, maxShift)
}

// Weight is the frequency weight R of the word at idx.
func (s *Store) Weight(idx int) float64 {
	return 1 / float64(idx/s.bucketSize+1)
}

// Rebuild drops tombstoned words and recomputes the bucket parameters, the
// sketches, the vocabulary and every bit-vector.
func (s *Store) Rebuild() {
	start := time.Now()
	if !s.removed.IsEmpty() {
		s.compact()
	}

	s.bucketExp, s.numBuckets, s.bucketSize = bucketParams(len(s.words))
	s.index = qgram.NewIndex(s.cfg, s.hasher)
	s.index.Rebuild(s.words, s.Shift)

	log.Debugf("Rebuilt index: %d words, %d grams, %d buckets of %d in %v",
		len(s.words), s.index.SketchCount(), s.numBuckets, s.bucketSize, time.Since(start))
}

// compact physically drops tombstoned words and renumbers the rest.
func (s *Store) compact() {
	kept := make([]string, 0, len(s.words)-int(s.removed.GetCardinality()))
	trie := patricia.NewTrie()
	for i, w := range s.words {
		if s.removed.Contains(uint32(i)) {
			continue
		}
		e, _ := s.lookup(w)
		trie.Insert(patricia.Prefix(w), &entry{pos: len(kept), display: e.display})
		kept = append(kept, w)
	}

	log.Debugf("Compacted %d tombstoned words", len(s.words)-len(kept))
	s.words = kept
	s.trie = trie
	s.removed.Clear()
}

// Add inserts the words of src. Words already present are revived if
// tombstoned and take the new display spelling. When the bucket exponent for
// the new total changes the store is rebuilt, otherwise the new words are
// appended to the index. Returns the canonical words that were new.
func (s *Store) Add(src Source) ([]string, error) {
	wl, err := Load(src, s.letters)
	if err != nil {
		return nil, err
	}

	var added []string
	pending := make(map[string]string)
	for i, w := range wl.Words {
		if e, ok := s.lookup(w); ok {
			s.removed.Remove(uint32(e.pos))
			e.display = wl.Originals[i]
			continue
		}
		if _, ok := pending[w]; !ok {
			added = append(added, w)
		}
		pending[w] = wl.Originals[i]
	}
	if len(added) == 0 {
		return nil, nil
	}

	total := len(s.words) + len(added)
	newExp, _, _ := bucketParams(total)
	for _, w := range added {
		s.insert(w, pending[w])
	}

	if newExp != s.bucketExp {
		log.Debugf("Bucket exponent %d -> %d, rebuilding", s.bucketExp, newExp)
		s.Rebuild()
		return added, nil
	}

	start := time.Now()
	s.numBuckets = (total + s.bucketSize - 1) / s.bucketSize
	s.index.Append(added, s.Shift)

	log.Debugf("Appended %d words (%d buckets, %d grams) in %v",
		len(added), s.numBuckets, s.index.SketchCount(), time.Since(start))
	return added, nil
}

// Remove tombstones the words of src that are present and live. Once the
// tombstones reach the compaction threshold of the stored word count the
// store is compacted and rebuilt. Returns the words tombstoned by this call.
func (s *Store) Remove(src Source) ([]string, error) {
	wl, err := Load(src, s.letters)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, w := range wl.Words {
		e, ok := s.lookup(w)
		if !ok || s.removed.Contains(uint32(e.pos)) {
			continue
		}
		s.removed.Add(uint32(e.pos))
		removed = append(removed, w)
	}

	tombstones := float64(s.removed.GetCardinality())
	if tombstones > 0 && tombstones >= s.threshold*float64(len(s.words)) {
		log.Debugf("%.0f tombstones of %d words reached threshold %.2f", tombstones, len(s.words), s.threshold)
		s.Rebuild()
	}
	return removed, nil
}

// IsValid reports whether word only uses allowed letters.
func (s *Store) IsValid(word string) bool {
	return s.letters.Valid(word)
}

// Letters returns the allowed-letters set, nil when unrestricted.
func (s *Store) Letters() *Letters {
	return s.letters
}

// Len is the number of stored words, tombstoned ones included.
func (s *Store) Len() int {
	return len(s.words)
}

// Live is the number of words that can be suggested.
func (s *Store) Live() int {
	return len(s.words) - int(s.removed.GetCardinality())
}

// Word returns the canonical word at idx.
func (s *Store) Word(idx int) string {
	return s.words[idx]
}

// Words returns the stored word list. Callers must not modify it.
func (s *Store) Words() []string {
	return s.words
}

// Display returns the display spelling of a canonical word.
func (s *Store) Display(word string) (string, bool) {
	e, ok := s.lookup(word)
	if !ok {
		return "", false
	}
	return e.display, true
}

// Position returns the index of a stored word, tombstoned or not.
func (s *Store) Position(word string) (int, bool) {
	e, ok := s.lookup(word)
	if !ok {
		return 0, false
	}
	return e.pos, true
}

// Contains reports whether word is stored and not tombstoned.
func (s *Store) Contains(word string) bool {
	e, ok := s.lookup(word)
	return ok && !s.removed.Contains(uint32(e.pos))
}

// IsRemoved reports whether the word at idx is tombstoned.
func (s *Store) IsRemoved(idx int) bool {
	return s.removed.Contains(uint32(idx))
}

// Removed returns the tombstoned words in storage order.
func (s *Store) Removed() []string {
	out := make([]string, 0, s.removed.GetCardinality())
	it := s.removed.Iterator()
	for it.HasNext() {
		out = append(out, s.words[it.Next()])
	}
	return out
}

func (s *Store) BucketSize() int { return s.bucketSize }
func (s *Store) NumBuckets() int { return s.numBuckets }
func (s *Store) BucketExp() int  { return s.bucketExp }

// Index returns the q-gram index. Callers must not modify it.
func (s *Store) Index() *qgram.Index {
	return s.index
}

// WithPrefix lists live words starting with prefix in lexical order.
func (s *Store) WithPrefix(prefix string) ([]string, error) {
	var out []string
	err := s.trie.VisitSubtree(patricia.Prefix(prefix), func(key patricia.Prefix, item patricia.Item) error {
		if e := item.(*entry); !s.removed.Contains(uint32(e.pos)) {
			out = append(out, string(key))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("prefix walk for %q: %w", prefix, err)
	}
	sort.Strings(out)
	return out, nil
}
