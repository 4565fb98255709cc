package epoch

import "github.com/pkg/errors"

// ErrSaturated is returned when the search for k would need to look
// beyond the representable 64-bit range. Per the spec this is treated
// as a hard stop rather than silent wraparound.
var ErrSaturated = errors.New("epoch: search range saturated at 2^64-1")

// BatchRunner executes one batch of an epoch: it wakes the worker pool
// to scan every strided tile in [state.MLower, state.MUpper], publish
// candidates through state.TrySetBest, and block until state.Done
// closes. Defined here so epoch never needs to import workerpool --
// workerpool.Pool satisfies this interface structurally.
type BatchRunner interface {
	RunBatch(s *State) error
}

// Coordinator drives the batch loop of section 4.7: split the half-line
// m >= m_lower into batches of batchTiles tiles, run each through the
// worker pool, and stop as soon as a batch yields a candidate.
type Coordinator struct {
	runner     BatchRunner
	tileLen    uint64
	threads    uint64
	batchTiles uint64
}

// NewCoordinator builds a coordinator bound to the given worker pool.
func NewCoordinator(runner BatchRunner, tileLen, threads, batchTiles uint64) *Coordinator {
	return &Coordinator{runner: runner, tileLen: tileLen, threads: threads, batchTiles: batchTiles}
}

// Solve returns m(k): the least m >= mLower such that (m+1 .. m+k) is
// entirely non-smooth with respect to primes <= k.
func (c *Coordinator) Solve(k, mLower uint64) (uint64, error) {
	state := NewState(k, mLower, c.tileLen, c.threads)

	for {
		saturated := state.StartBatch(c.batchTiles)

		if err := c.runner.RunBatch(state); err != nil {
			return 0, errors.Wrapf(err, "epoch: batch for k=%d m_lower=%d", k, state.MLower)
		}

		if state.Found() {
			best := state.BestM.Load()
			if best < state.MLower {
				panic("epoch: best_m regressed below m_lower")
			}
			return best, nil
		}

		if saturated {
			return 0, ErrSaturated
		}

		state.MLower = state.MUpper + 1
	}
}
