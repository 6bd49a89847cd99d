package search

import "sync/atomic"

// Generation issues monotonically increasing request sequence numbers.
// A completion is applied only if its number is still the latest issued.
type Generation struct {
	n atomic.Uint64
}

// Next issues a new sequence number and makes it the latest.
func (g *Generation) Next() uint64 { return g.n.Add(1) }

// Current returns the latest issued sequence number, 0 if none.
func (g *Generation) Current() uint64 { return g.n.Load() }

// IsLatest reports whether seq is the latest issued sequence number.
func (g *Generation) IsLatest(seq uint64) bool { return seq != 0 && seq == g.n.Load() }
