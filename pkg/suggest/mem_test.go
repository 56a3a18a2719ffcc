//go:build test

package suggest

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"testing"

	"github.com/bastiangx/wordcorrect/pkg/dictionary"
)

var memQueries = []string{
	"helo", "wrold", "progrm", "thier", "compter",
	"internatinal", "devlopment", "abcd", "teh", "recieve",
}

var memPrefixes = []string{"a", "ab", "he", "hel", "wo", "pro", "th", "co", "int", "dev"}

// syntheticWords builds n distinct lowercase words from a small stem list.
func syntheticWords(n int) []string {
	stems := []string{
		"hello", "world", "program", "there", "computer", "international",
		"development", "receive", "their", "abcde", "the", "apple",
	}
	out := make([]string, 0, n)
	for i := 0; len(out) < n; i++ {
		s := stems[i%len(stems)]
		if i >= len(stems) {
			s += string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('a'+(i/676)%26))
		}
		out = append(out, s)
	}
	return out
}

func memCorrector(t *testing.T, n int) *Corrector {
	t.Helper()
	return newCorrector(t, nil, DefaultOptions(), syntheticWords(n)...)
}

type memSample struct {
	alloc      uint64
	goroutines int
}

func sample() memSample {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return memSample{alloc: m.Alloc, goroutines: runtime.NumGoroutine()}
}

func report(t *testing.T, label string, base memSample, ops int) (float64, int) {
	t.Helper()
	now := sample()
	memDelta := int64(now.alloc) - int64(base.alloc)
	goroutineDelta := now.goroutines - base.goroutines
	memPerOp := float64(memDelta) / float64(ops)
	t.Logf("%s ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		label, ops, memDelta, memPerOp, goroutineDelta)
	return memPerOp, goroutineDelta
}

func TestMemoryQueries(t *testing.T) {
	iterations := []int{100, 500, 1000}

	for _, iterCount := range iterations {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			c := memCorrector(t, 2000)
			opts := DefaultQueryOptions()
			base := sample()

			ops := 0
			for i := 0; i < iterCount; i++ {
				if _, err := c.Autocorrect(dictionary.Words(memQueries...), opts); err != nil {
					t.Fatal(err)
				}
				if _, err := c.Top3(dictionary.Words(memQueries...), opts); err != nil {
					t.Fatal(err)
				}
				for _, p := range memPrefixes {
					_ = c.Complete(p, 10)
				}
				ops += 2*len(memQueries) + len(memPrefixes)
			}

			memPerOp, goroutineDelta := report(t, "queries", base, ops)
			if memPerOp > 1000 {
				t.Errorf("excessive memory retained per operation: %.2f bytes", memPerOp)
			}
			if goroutineDelta > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
			}
		})
	}
}

func TestMemoryEditChurn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping edit churn test in short mode")
	}

	profile, err := os.Create("edit_churn.prof")
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer func() {
		profile.Close()
		os.Remove("edit_churn.prof")
	}()

	c := memCorrector(t, 2000)
	opts := DefaultQueryOptions()
	extra := syntheticWords(2200)[2000:]
	base := sample()

	cycles := 50
	maxDelta := int64(0)
	for cycle := 0; cycle < cycles; cycle++ {
		if _, err := c.AddWords(dictionary.Words(extra...)); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Autocorrect(dictionary.Words(memQueries...), opts); err != nil {
			t.Fatal(err)
		}
		if _, err := c.RemoveWords(dictionary.Words(extra...)); err != nil {
			t.Fatal(err)
		}

		if cycle%10 == 0 {
			now := sample()
			if d := int64(now.alloc) - int64(base.alloc); d > maxDelta {
				maxDelta = d
			}
		}
	}

	if err := pprof.WriteHeapProfile(profile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}

	if c.Store().Live() != 2000 {
		t.Errorf("live words = %d after churn, want 2000", c.Store().Live())
	}
	if tomb := c.Store().Len() - c.Store().Live(); tomb > len(extra) {
		t.Errorf("tombstones accumulated across cycles: %d", tomb)
	}
	_, goroutineDelta := report(t, "churn", base, cycles)
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
	if maxDelta > 10*1024*1024 {
		t.Errorf("excessive peak memory usage: %d bytes", maxDelta)
	}
}
