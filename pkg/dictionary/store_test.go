package dictionary

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/pkg/qgram"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// fruits is frequency ordered by convention only; 20 words give 8 buckets
// of 3.
var fruits = []string{
	"apple", "banana", "grape", "orange", "pear",
	"peach", "plum", "cherry", "lemon", "lime",
	"mango", "melon", "kiwi", "fig", "date",
	"guava", "papaya", "apricot", "olive", "quince",
}

func newStore(t *testing.T, words ...string) *Store {
	t.Helper()
	s, err := NewStore(Words(words...), StoreOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func assertSameIndex(t *testing.T, got, want *qgram.Index) {
	t.Helper()
	if !reflect.DeepEqual(got.Vocabulary(), want.Vocabulary()) {
		t.Fatalf("vocabulary differs:\n got %q\nwant %q", got.Vocabulary(), want.Vocabulary())
	}
	if got.Len() != want.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
	}
	for i := 0; i < want.Len(); i++ {
		if !reflect.DeepEqual(got.Bits(i), want.Bits(i)) {
			t.Errorf("bits of word %d differ", i)
		}
	}
	for _, gram := range want.Vocabulary() {
		a, _ := got.Sketch(gram)
		b, _ := want.Sketch(gram)
		if a == nil || b == nil || !a.Equal(b) {
			t.Errorf("sketch of %q differs", gram)
		}
	}
}

func TestBucketParams(t *testing.T) {
	testCases := []struct {
		n                   int
		exp, buckets, bsize int
	}{
		{0, 0, 1, 1},
		{1, 0, 1, 1},
		{2, 1, 2, 1},
		{4, 1, 2, 2},
		{5, 2, 4, 2},
		{16, 2, 4, 4},
		{17, 3, 8, 3},
		{20, 3, 8, 3},
		{20000, 8, 256, 79},
	}
	for _, tc := range testCases {
		exp, nb, bs := bucketParams(tc.n)
		if exp != tc.exp || nb != tc.buckets || bs != tc.bsize {
			t.Errorf("bucketParams(%d) = (%d,%d,%d), want (%d,%d,%d)", tc.n, exp, nb, bs, tc.exp, tc.buckets, tc.bsize)
		}
	}
}

func TestShiftAndWeight(t *testing.T) {
	s := newStore(t, fruits...)
	if s.NumBuckets() != 8 || s.BucketSize() != 3 {
		t.Fatalf("buckets = %d of %d, want 8 of 3", s.NumBuckets(), s.BucketSize())
	}

	testCases := []struct {
		idx    int
		shift  int
		weight float64
	}{
		{0, 12, 1},
		{2, 12, 1},
		{3, 8, 1.0 / 2},
		{6, 4, 1.0 / 3},
		{12, 0, 1.0 / 5},
		{19, 0, 1.0 / 7},
	}
	for _, tc := range testCases {
		if got := s.Shift(tc.idx); got != tc.shift {
			t.Errorf("Shift(%d) = %d, want %d", tc.idx, got, tc.shift)
		}
		if got := s.Weight(tc.idx); got != tc.weight {
			t.Errorf("Weight(%d) = %v, want %v", tc.idx, got, tc.weight)
		}
	}
}

func TestNewStoreDeduplicates(t *testing.T) {
	s := newStore(t, "Apple", "banana", "APPLE", "", "Banana")

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if pos, ok := s.Position("apple"); !ok || pos != 0 {
		t.Errorf("Position(apple) = %d,%v, want 0,true", pos, ok)
	}
	if d, _ := s.Display("apple"); d != "APPLE" {
		t.Errorf("Display(apple) = %q, want APPLE", d)
	}
	if d, _ := s.Display("banana"); d != "Banana" {
		t.Errorf("Display(banana) = %q, want Banana", d)
	}
	if s.Index().Len() != 2 {
		t.Errorf("index holds %d vectors, want 2", s.Index().Len())
	}
}

func TestNewStoreFiltersLetters(t *testing.T) {
	letters, err := ParseLetters([]string{"a-z"})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewStore(Words("apple", "café", "x-ray", "pear"), StoreOptions{Letters: letters})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"apple", "pear"}; !reflect.DeepEqual(s.Words(), want) {
		t.Errorf("Words() = %q, want %q", s.Words(), want)
	}
	if s.IsValid("café") || !s.IsValid("Pear") {
		t.Error("IsValid disagrees with the letters set")
	}
}

func TestAddIncrementalMatchesRebuild(t *testing.T) {
	s := newStore(t, fruits...)
	exp := s.BucketExp()

	added, err := s.Add(Word("Berry"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(added, []string{"berry"}) {
		t.Fatalf("Add returned %q", added)
	}
	if s.BucketExp() != exp {
		t.Fatalf("bucket exponent changed from %d to %d", exp, s.BucketExp())
	}
	if s.NumBuckets() != 7 || s.BucketSize() != 3 {
		t.Errorf("buckets = %d of %d, want 7 of 3", s.NumBuckets(), s.BucketSize())
	}
	if d, _ := s.Display("berry"); d != "Berry" {
		t.Errorf("Display(berry) = %q", d)
	}

	full := newStore(t, append(append([]string{}, fruits...), "berry")...)
	assertSameIndex(t, s.Index(), full.Index())
}

func TestAddRebuildsOnExponentChange(t *testing.T) {
	s := newStore(t, fruits[:16]...)
	if s.BucketExp() != 2 {
		t.Fatalf("BucketExp() = %d, want 2", s.BucketExp())
	}

	if _, err := s.Add(Word(fruits[16])); err != nil {
		t.Fatal(err)
	}
	if s.BucketExp() != 3 || s.NumBuckets() != 8 || s.BucketSize() != 3 {
		t.Errorf("after rebuild: exp=%d buckets=%d size=%d, want 3, 8, 3", s.BucketExp(), s.NumBuckets(), s.BucketSize())
	}

	full := newStore(t, fruits[:17]...)
	assertSameIndex(t, s.Index(), full.Index())
}

func TestAddSkipsPresentWords(t *testing.T) {
	s := newStore(t, fruits...)
	added, err := s.Add(Words("apple", "Kiwi", "fig"))
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 0 {
		t.Errorf("Add returned %q, want nothing", added)
	}
	if s.Len() != len(fruits) {
		t.Errorf("Len() = %d, want %d", s.Len(), len(fruits))
	}
	if d, _ := s.Display("kiwi"); d != "Kiwi" {
		t.Errorf("Display(kiwi) = %q, want Kiwi", d)
	}
}

func TestRemoveThenAddRestores(t *testing.T) {
	s := newStore(t, fruits...)
	pos, _ := s.Position("banana")

	removed, err := s.Remove(Word("banana"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(removed, []string{"banana"}) {
		t.Fatalf("Remove returned %q", removed)
	}
	if s.Contains("banana") || !s.IsRemoved(pos) {
		t.Fatal("banana should be tombstoned")
	}
	if s.Live() != len(fruits)-1 || s.Len() != len(fruits) {
		t.Errorf("Live()=%d Len()=%d", s.Live(), s.Len())
	}
	if !reflect.DeepEqual(s.Removed(), []string{"banana"}) {
		t.Errorf("Removed() = %q", s.Removed())
	}

	again, _ := s.Remove(Word("banana"))
	if len(again) != 0 {
		t.Errorf("removing a tombstoned word returned %q", again)
	}

	added, err := s.Add(Word("Banana"))
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 0 {
		t.Errorf("reviving returned %q as new", added)
	}
	if !s.Contains("banana") || s.IsRemoved(pos) || len(s.Removed()) != 0 {
		t.Error("banana should be live again")
	}
	if d, _ := s.Display("banana"); d != "Banana" {
		t.Errorf("Display(banana) = %q, want Banana", d)
	}
}

func TestRemoveCompacts(t *testing.T) {
	s := newStore(t, fruits...)

	if _, err := s.Remove(Words("banana", "unknown")); err != nil {
		t.Fatal(err)
	}
	if s.Len() != len(fruits) {
		t.Fatalf("one tombstone of 20 should not compact")
	}

	if _, err := s.Remove(Word("mango")); err != nil {
		t.Fatal(err)
	}
	if len(s.Removed()) != 0 {
		t.Errorf("tombstones remain after compaction: %q", s.Removed())
	}
	if s.Len() != len(fruits)-2 || s.Index().Len() != s.Len() {
		t.Errorf("Len()=%d index=%d, want %d", s.Len(), s.Index().Len(), len(fruits)-2)
	}
	for _, w := range []string{"banana", "mango"} {
		if _, ok := s.Position(w); ok {
			t.Errorf("%s still stored after compaction", w)
		}
	}
	for i, w := range s.Words() {
		if pos, ok := s.Position(w); !ok || pos != i {
			t.Errorf("Position(%s) = %d,%v after compaction, want %d", w, pos, ok, i)
		}
	}

	var rest []string
	for _, w := range fruits {
		if w != "banana" && w != "mango" {
			rest = append(rest, w)
		}
	}
	assertSameIndex(t, s.Index(), newStore(t, rest...).Index())
}

func TestCompactThresholdOption(t *testing.T) {
	s, err := NewStore(Words(fruits...), StoreOptions{CompactThreshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 9; i++ {
		if _, err := s.Remove(Word(fruits[i])); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() != len(fruits) || s.Live() != len(fruits)-9 {
		t.Fatalf("compacted early: Len()=%d Live()=%d", s.Len(), s.Live())
	}
	if _, err := s.Remove(Word(fruits[9])); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 10 {
		t.Errorf("Len() = %d after reaching half, want 10", s.Len())
	}
}

func TestWithPrefix(t *testing.T) {
	s := newStore(t, "help", "hello", "world", "helm")
	if _, err := s.Remove(Word("helm")); err != nil {
		t.Fatal(err)
	}

	got, err := s.WithPrefix("hel")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"hello", "help"}; !reflect.DeepEqual(got, want) {
		t.Errorf("WithPrefix(hel) = %q, want %q", got, want)
	}
}

func TestEditsApply(t *testing.T) {
	s := newStore(t, fruits...)

	edits := Edits{
		Add:    []Source{Words("berry", "apple")},
		Remove: []Source{Word("plum")},
	}
	summary, err := edits.Apply(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(summary.Added, []string{"berry"}) || !reflect.DeepEqual(summary.Removed, []string{"plum"}) {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Words != 21 || summary.Live != 20 || summary.Tombstone != 1 {
		t.Errorf("counts = %d/%d/%d, want 21/20/1", summary.Words, summary.Live, summary.Tombstone)
	}

	bad := Edits{Add: []Source{FilePath(fmt.Sprintf("%s/missing.txt", t.TempDir()))}}
	if _, err := bad.Apply(s); err == nil {
		t.Error("expected an error for a missing file")
	}
	if !(Edits{}).Empty() {
		t.Error("zero Edits should be empty")
	}
}
