// Package epoch holds the per-k search state and the lock-free
// minimality protocol that lets tile-scanning workers converge on the
// globally smallest m(k) even though tiles complete out of order.
package epoch

import (
	"math"
	"sync/atomic"

	"github.com/bitRAKE/math/fastmod"
	"github.com/bitRAKE/math/offsetcarry"
	"github.com/bitRAKE/math/primetable"
)

// Infinity is the sentinel for "no candidate found yet".
const Infinity uint64 = math.MaxUint64

// State is the immutable-per-k search context plus the three atomic
// cells workers publish through during a batch. PrimeTable, FastMod
// entries and StepMod are rebuilt once per k and read-only thereafter;
// BestM, EndLimit and ActiveWorkers are the only fields mutated
// concurrently while workers run.
type State struct {
	K       uint64
	Table   primetable.Table
	Entries []fastmod.Entry
	TileLen uint64 // T
	Threads uint64 // W
	Stride  uint64 // S = T*W
	StepMod []uint64

	MLower uint64 // current batch's lower bound; coordinator-owned between batches
	MUpper uint64 // current batch's upper bound (inclusive); coordinator-owned

	BestM         atomic.Uint64
	EndLimit      atomic.Uint64
	ActiveWorkers atomic.Int64
	Done          chan struct{}
}

// NewState builds the prime table and reciprocals for k and prepares
// the search starting from mLower, per invariant I1: mLower should be
// m(k-1) (or 0 for k=1), never skipping a valid smaller m.
func NewState(k, mLower, tileLen, threads uint64) *State {
	if threads == 0 {
		threads = 1
	}
	table := primetable.Build(k)
	entries := fastmod.BuildAll(table.Primes)
	stride := tileLen * threads
	return &State{
		K:       k,
		Table:   table,
		Entries: entries,
		TileLen: tileLen,
		Threads: threads,
		Stride:  stride,
		StepMod: offsetcarry.StepMod(table.Primes, entries, stride),
		MLower:  mLower,
	}
}

// StartBatch computes m_upper for a batch of batchTiles tiles, resets
// the atomic cells, and clears the done-event. It returns saturated=
// true if the half-line has outgrown the representable range, per the
// spec's arithmetic-saturation handling.
func (s *State) StartBatch(batchTiles uint64) (saturated bool) {
	span := s.TileLen * batchTiles
	upper := s.MLower + span - 1
	if upper < s.MLower || span == 0 {
		upper = math.MaxUint64
		saturated = true
	}
	s.MUpper = upper

	s.BestM.Store(Infinity)
	s.EndLimit.Store(upper)
	s.ActiveWorkers.Store(int64(s.Threads))
	s.Done = make(chan struct{})
	return saturated
}

// TrySetBest is the only subtle piece of the protocol: it publishes a
// candidate m only if it improves on the current best, then shrinks
// EndLimit to match. EndLimit only ever shrinks during a batch, and
// every worker rereads it before starting each tile, so the search
// space contracts monotonically as candidates are found.
func (s *State) TrySetBest(v uint64) {
	for {
		cur := s.BestM.Load()
		if v >= cur {
			return
		}
		if s.BestM.CompareAndSwap(cur, v) {
			break
		}
	}

	var newLimit uint64
	if v == 0 {
		newLimit = 0
	} else {
		newLimit = v - 1
	}
	for {
		oldLimit := s.EndLimit.Load()
		if newLimit >= oldLimit {
			return
		}
		if s.EndLimit.CompareAndSwap(oldLimit, newLimit) {
			return
		}
	}
}

// WorkerDone decrements the active-worker count; the worker that drives
// it to zero closes Done, waking the coordinator.
func (s *State) WorkerDone() {
	if s.ActiveWorkers.Add(-1) == 0 {
		close(s.Done)
	}
}

// Found reports whether a candidate has been published this batch.
func (s *State) Found() bool {
	return s.BestM.Load() != Infinity
}
