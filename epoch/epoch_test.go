package epoch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrySetBestKeepsSmallest(t *testing.T) {
	s := NewState(10, 0, 64, 4)
	s.StartBatch(4)

	// 500 lies above this batch's end_limit (0+64*4-1 = 255), so end_limit
	// is left as it is.
	s.TrySetBest(500)
	require.Equal(t, uint64(500), s.BestM.Load())
	require.Equal(t, uint64(255), s.EndLimit.Load())

	// A larger candidate must not regress best_m or widen end_limit.
	s.TrySetBest(900)
	require.Equal(t, uint64(500), s.BestM.Load())
	require.Equal(t, uint64(255), s.EndLimit.Load())

	s.TrySetBest(100)
	require.Equal(t, uint64(100), s.BestM.Load())
	require.Equal(t, uint64(99), s.EndLimit.Load())
}

func TestTrySetBestAtZero(t *testing.T) {
	s := NewState(3, 0, 64, 4)
	s.StartBatch(4)
	s.TrySetBest(0)
	require.Equal(t, uint64(0), s.BestM.Load())
	require.Equal(t, uint64(0), s.EndLimit.Load())
}

func TestTrySetBestConcurrentRacesConvergeOnMinimum(t *testing.T) {
	s := NewState(10, 0, 64, 4)
	s.StartBatch(4)

	candidates := []uint64{777, 12, 999, 5, 500, 5000, 1}
	var wg sync.WaitGroup
	for _, c := range candidates {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			s.TrySetBest(v)
		}(c)
	}
	wg.Wait()

	require.Equal(t, uint64(1), s.BestM.Load())
	require.Equal(t, uint64(0), s.EndLimit.Load())
}

func TestWorkerDoneClosesDoneOnLastWorker(t *testing.T) {
	s := NewState(5, 0, 64, 3)
	s.StartBatch(2)

	select {
	case <-s.Done:
		t.Fatal("Done closed before any worker finished")
	default:
	}

	s.WorkerDone()
	s.WorkerDone()
	select {
	case <-s.Done:
		t.Fatal("Done closed before the last worker finished")
	default:
	}

	s.WorkerDone()
	select {
	case <-s.Done:
	default:
		t.Fatal("Done not closed after the last worker finished")
	}
}

func TestStartBatchResetsAtomics(t *testing.T) {
	s := NewState(5, 100, 16, 2)
	s.StartBatch(3)
	require.Equal(t, Infinity, s.BestM.Load())
	require.Equal(t, uint64(100+16*3-1), s.EndLimit.Load())
	require.Equal(t, int64(2), s.ActiveWorkers.Load())
}

func TestStartBatchDetectsSaturation(t *testing.T) {
	s := NewState(5, ^uint64(0)-5, 16, 4)
	saturated := s.StartBatch(10)
	require.True(t, saturated)
	require.Equal(t, uint64(^uint64(0)), s.EndLimit.Load())
}

type fakeRunner struct {
	found uint64
}

func (f *fakeRunner) RunBatch(s *State) error {
	if s.MLower <= f.found && f.found <= s.MUpper {
		s.TrySetBest(f.found)
	}
	return nil
}

func TestCoordinatorSolveFindsAnswerAcrossBatches(t *testing.T) {
	runner := &fakeRunner{found: 1000}
	c := NewCoordinator(runner, 64, 1, 4) // batch span = 64*4 = 256, so answer needs several batches
	m, err := c.Solve(5, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), m)
}

func TestCoordinatorSolveIsIdempotent(t *testing.T) {
	runner := &fakeRunner{found: 777}
	c1 := NewCoordinator(runner, 32, 2, 8)
	m1, err := c1.Solve(7, 0)
	require.NoError(t, err)

	c2 := NewCoordinator(runner, 32, 2, 8)
	m2, err := c2.Solve(7, 0)
	require.NoError(t, err)

	require.Equal(t, m1, m2)
}
