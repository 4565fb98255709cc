// Package offsetcarry tracks, per worker and per prime, the next
// in-window multiple of that prime -- and advances it across tiles of
// a strided sweep by subtraction alone, never a modulus.
package offsetcarry

import "github.com/bitRAKE/math/fastmod"

// Init computes off[i], the least index >= 0 within the window
// starting at firstCandidate that is divisible by primes[i]; off[i] is
// always < primes[i]. This is the one place per worker-batch that pays
// for a division per prime -- cheap next to the O(T) sieve work that
// follows, and it is what lets every later tile advance off[] with a
// single subtraction.
func Init(firstCandidate uint64, primes []uint64, entries []fastmod.Entry) []uint64 {
	off := make([]uint64, len(primes))
	for i, p := range primes {
		if p == 2 {
			off[i] = firstCandidate & 1
			continue
		}
		r := fastmod.Mod(entries[i], firstCandidate)
		if r == 0 {
			off[i] = 0
		} else {
			off[i] = p - r
		}
	}
	return off
}

// StepMod precomputes stride mod p_i for every prime, once per epoch
// (stride is fixed for the lifetime of the epoch's thread count).
func StepMod(primes []uint64, entries []fastmod.Entry, stride uint64) []uint64 {
	stepMod := make([]uint64, len(primes))
	for i, p := range primes {
		if p == 2 {
			stepMod[i] = stride & 1
			continue
		}
		stepMod[i] = fastmod.Mod(entries[i], stride)
	}
	return stepMod
}

// Advance carries off[] forward by one stride: off[i] <- (off[i] -
// stepMod[i]) mod p_i, computed as a branch instead of a division.
func Advance(off []uint64, primes []uint64, stepMod []uint64) {
	for i, p := range primes {
		if off[i] >= stepMod[i] {
			off[i] -= stepMod[i]
		} else {
			off[i] += p - stepMod[i]
		}
	}
}
