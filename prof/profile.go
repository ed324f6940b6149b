// Package prof collects coarse wall-clock timings for expensive steps
// such as lookup-table generation and polynomial factorization. Callers
// record with defer prof.Track(time.Now(), label) and consume snapshots
// from reporting tools.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Summary aggregates the entries sharing one label.
type Summary struct {
	Label string
	Count int
	Total time.Duration
	Max   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start under the given label.
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: label, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Summarize groups entries by label, sorted by descending total time.
func Summarize(entries []Entry) []Summary {
	byLabel := make(map[string]*Summary)
	for _, e := range entries {
		s, ok := byLabel[e.Label]
		if !ok {
			s = &Summary{Label: e.Label}
			byLabel[e.Label] = s
		}
		s.Count++
		s.Total += e.Dur
		if e.Dur > s.Max {
			s.Max = e.Dur
		}
	}
	out := make([]Summary, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
