// Package workerpool runs a fixed set of OS-thread-pinned goroutines
// that scan strided tiles for the epoch coordinator. Each worker owns
// its scratch buffers exclusively; the only state shared across
// workers during a batch is the epoch's three atomic cells.
package workerpool

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bitRAKE/math/epoch"
	"github.com/bitRAKE/math/internal/affinity"
	"github.com/bitRAKE/math/offsetcarry"
	"github.com/bitRAKE/math/scanner"
	"github.com/bitRAKE/math/tilesieve"
)

type wakeKind int

const (
	wakeStart wakeKind = iota
	wakeStop
)

type wakeup struct {
	kind  wakeKind
	state *epoch.State
	errCh chan<- error
}

// worker owns the per-thread scratch that spec section 3 calls
// WorkerState: it is retained across epochs and only ever grows.
type worker struct {
	tid      uint64
	cpu      int
	cmds     chan wakeup
	residual []uint64
	bad      []byte
}

func (w *worker) ensureCapacity(l uint64) {
	if uint64(len(w.residual)) < l {
		w.residual = make([]uint64, l)
		w.bad = make([]byte, l)
	}
}

// run is the worker's entire lifetime: pin to a core once, then
// alternate between blocking for a wakeup and executing one batch.
// Nothing here allocates per tile.
func (w *worker) run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := affinity.Pin(w.cpu); err != nil {
		return errors.Wrapf(err, "workerpool: worker %d", w.tid)
	}

	for cmd := range w.cmds {
		switch cmd.kind {
		case wakeStop:
			return nil
		case wakeStart:
			w.runBatch(cmd.state)
			cmd.errCh <- nil
		}
	}
	return nil
}

// runBatch implements section 4.7 step 3 for a single worker: walk
// every tile this worker owns at stride S, starting a fresh off[]
// computation for this batch's starting base (cheap: one division per
// prime), then carry it tile-to-tile without further division.
func (w *worker) runBatch(s *epoch.State) {
	defer s.WorkerDone()

	base := s.MLower + w.tid*s.TileLen
	if base > s.EndLimit.Load() {
		return
	}

	off := offsetcarry.Init(base+1, s.Table.Primes, s.Entries)

	for {
		endLimit := s.EndLimit.Load()
		if base > endLimit {
			return
		}

		startCount := s.TileLen
		if remaining := endLimit - base + 1; remaining < startCount {
			startCount = remaining
		}

		length := tilesieve.WindowLen(startCount, s.K)
		w.ensureCapacity(length)

		tilesieve.Sieve(base, startCount, s.K, s.Table.Primes, s.Entries, s.StepMod, off, w.residual, w.bad)

		if v := scanner.ScanTile(base, startCount, s.K, w.bad); v != scanner.NotFound {
			s.TrySetBest(v)
		}

		base += s.Stride
	}
}

// Pool manages the fixed set of worker goroutines for the lifetime of
// the process; epochs come and go, the pool does not.
type Pool struct {
	workers []*worker
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a pool of n workers, each destined for a distinct
// logical core (wrapping around if n exceeds the host's core count).
func New(n int) *Pool {
	if n <= 0 {
		n = affinity.NumCPU()
	}
	if n <= 0 {
		n = 1
	}
	hostCPUs := affinity.NumCPU()
	if hostCPUs <= 0 {
		hostCPUs = n
	}

	workers := make([]*worker, n)
	for i := range workers {
		workers[i] = &worker{
			tid:  uint64(i),
			cpu:  i % hostCPUs,
			cmds: make(chan wakeup, 1),
		}
	}
	return &Pool{workers: workers}
}

// Start spins up every worker goroutine. Any worker's setup failure
// (affinity pinning) is surfaced the first time it occurs; per the
// spec, setup errors are fatal and non-recoverable.
func (p *Pool) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	p.group = group
	p.ctx = gctx
	p.cancel = cancel

	for _, w := range p.workers {
		w := w
		group.Go(w.run)
	}
	return nil
}

// Threads reports the number of workers in the pool.
func (p *Pool) Threads() int { return len(p.workers) }

// RunBatch wakes every worker with the given epoch state, blocks until
// the batch's done-event fires, and returns. It satisfies
// epoch.BatchRunner.
func (p *Pool) RunBatch(s *epoch.State) error {
	errCh := make(chan error, len(p.workers))
	for _, w := range p.workers {
		select {
		case w.cmds <- wakeup{kind: wakeStart, state: s, errCh: errCh}:
		case <-p.ctx.Done():
			return errors.Wrap(p.ctx.Err(), "workerpool: pool stopped mid-dispatch")
		}
	}

	<-s.Done

	for range p.workers {
		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-p.ctx.Done():
			return errors.Wrap(p.ctx.Err(), "workerpool: pool stopped mid-batch")
		}
	}
	return nil
}

// Stop sends every worker a STOP wakeup and waits for them to exit.
func (p *Pool) Stop() error {
	for _, w := range p.workers {
		w.cmds <- wakeup{kind: wakeStop}
		close(w.cmds)
	}
	if p.cancel != nil {
		p.cancel()
	}
	if p.group == nil {
		return nil
	}
	return p.group.Wait()
}
