// Package scanner slides a length-k window over a sieved tile to find
// the smallest starting offset at which every position is non-smooth.
package scanner

import "math"

// NotFound is returned by ScanTile when no qualifying start exists in
// the tile.
const NotFound uint64 = math.MaxUint64

// ScanTile returns the smallest m in [base, base+startCount-1] such
// that every integer in (m+1 .. m+k) is non-smooth (bad_bits all unset
// over that run), or NotFound if no such m exists in this tile.
//
// bad must have length >= tilesieve.WindowLen(startCount, k); bad[j]
// is 1 iff base+1+j is k-smooth.
func ScanTile(base, startCount, k uint64, bad []byte) uint64 {
	if startCount == 0 {
		return NotFound
	}

	var badCount uint64
	for j := uint64(0); j < k; j++ {
		badCount += uint64(bad[j])
	}

	if badCount == 0 {
		return base
	}

	for s := uint64(1); s < startCount; s++ {
		badCount -= uint64(bad[s-1])
		badCount += uint64(bad[s+k-1])
		if badCount == 0 {
			return base + s
		}
	}

	return NotFound
}
