package dictionary

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// EditSummary reports what a batch of runtime edits changed.
type EditSummary struct {
	Added     []string `json:"added" msgpack:"added"`
	Removed   []string `json:"removed" msgpack:"removed"`
	Words     int      `json:"words" msgpack:"words"`
	Live      int      `json:"live" msgpack:"live"`
	Tombstone int      `json:"tombstones" msgpack:"tombstones"`
	Buckets   int      `json:"buckets" msgpack:"buckets"`
}

// Edits is a batch of additions and removals applied to a running store.
// Additions are applied before removals.
type Edits struct {
	Add    []Source
	Remove []Source
}

// Empty reports whether the batch has nothing to apply.
func (e Edits) Empty() bool {
	return len(e.Add) == 0 && len(e.Remove) == 0
}

// Apply runs the batch against s. The first failing source aborts the rest;
// edits already applied stay in place.
func (e Edits) Apply(s *Store) (EditSummary, error) {
	start := time.Now()
	var summary EditSummary

	for _, src := range e.Add {
		added, err := s.Add(src)
		if err != nil {
			return s.summarize(summary), fmt.Errorf("failed to add %s: %w", src, err)
		}
		summary.Added = append(summary.Added, added...)
	}
	for _, src := range e.Remove {
		removed, err := s.Remove(src)
		if err != nil {
			return s.summarize(summary), fmt.Errorf("failed to remove %s: %w", src, err)
		}
		summary.Removed = append(summary.Removed, removed...)
	}

	summary = s.summarize(summary)
	log.Debugf("Applied edits: +%d -%d, %d live of %d in %v",
		len(summary.Added), len(summary.Removed), summary.Live, summary.Words, time.Since(start))
	return summary, nil
}

func (s *Store) summarize(summary EditSummary) EditSummary {
	summary.Words = s.Len()
	summary.Live = s.Live()
	summary.Tombstone = s.Len() - s.Live()
	summary.Buckets = s.NumBuckets()
	return summary
}
