// Package tilesieve strips small-prime factors out of a contiguous
// window of candidates, leaving behind which positions are k-smooth.
package tilesieve

import (
	"math/bits"

	"github.com/bitRAKE/math/fastmod"
	"github.com/bitRAKE/math/offsetcarry"
)

// WindowLen returns the residual/bad buffer length Sieve needs for a
// tile of startCount start positions and block length k: L = startCount+k.
func WindowLen(startCount, k uint64) uint64 { return startCount + k }

// Sieve marks k-smooth positions inside the window (base+1 .. base+L),
// L = WindowLen(startCount, k). residual and bad must each have
// length >= L.
//
// On return, residual[j] holds the cofactor of base+1+j after every
// prime in primes has been divided out as many times as it divides;
// bad[j] is 1 iff that cofactor is 1, i.e. base+1+j is k-smooth.
//
// off is carried in place for the next tile via offsetcarry.Advance,
// using stepMod precomputed for the caller's stride.
func Sieve(base, startCount, k uint64, primes []uint64, entries []fastmod.Entry, stepMod, off []uint64, residual []uint64, bad []byte) {
	length := WindowLen(startCount, k)
	if length == 0 {
		return
	}
	if uint64(len(residual)) < length || uint64(len(bad)) < length {
		panic("tilesieve: residual/bad buffers shorter than window")
	}

	for j := uint64(0); j < length; j++ {
		residual[j] = base + 1 + j
		bad[j] = 0
	}

	for i, p := range primes {
		e := entries[i]
		if p == 2 {
			for j := off[i]; j < length; j += 2 {
				v := residual[j]
				tz := bits.TrailingZeros64(v)
				residual[j] = v >> uint(tz)
			}
		} else {
			for j := off[i]; j < length; j += p {
				for fastmod.DivideIfDivisible(e, &residual[j]) {
				}
			}
		}
	}
	offsetcarry.Advance(off, primes, stepMod)

	for j := uint64(0); j < length; j++ {
		if residual[j] == 1 {
			bad[j] = 1
		}
	}
}
