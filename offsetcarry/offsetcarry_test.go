package offsetcarry

import (
	"testing"

	"github.com/bitRAKE/math/fastmod"
	"github.com/bitRAKE/math/primetable"
)

func TestInitMatchesDirectComputation(t *testing.T) {
	table := primetable.Build(50)
	entries := fastmod.BuildAll(table.Primes)

	for _, first := range []uint64{1, 2, 3, 7, 100, 101, 999983} {
		off := Init(first, table.Primes, entries)
		for i, p := range table.Primes {
			want := (p - first%p) % p
			if off[i] != want {
				t.Errorf("first=%d p=%d off=%d want=%d", first, p, off[i], want)
			}
			// off[i] must mark a multiple of p at index off[i]: first+off[i] % p == 0
			if (first+off[i])%p != 0 {
				t.Errorf("first=%d p=%d: first+off=%d not divisible by p", first, p, first+off[i])
			}
		}
	}
}

func TestAdvanceMatchesReinit(t *testing.T) {
	table := primetable.Build(30)
	entries := fastmod.BuildAll(table.Primes)
	stride := uint64(97)
	stepMod := StepMod(table.Primes, entries, stride)

	first := uint64(11)
	off := Init(first, table.Primes, entries)

	for step := 0; step < 20; step++ {
		first += stride
		want := Init(first, table.Primes, entries)
		Advance(off, table.Primes, stepMod)
		for i := range table.Primes {
			if off[i] != want[i] {
				t.Fatalf("step=%d prime=%d advanced off=%d want=%d", step, table.Primes[i], off[i], want[i])
			}
		}
	}
}
