// Package primetable sieves the primes up to a small bound k.
//
// k never exceeds a few hundred in practice (the block length of the
// m(k) search), so a plain sieve of Eratosthenes is more than fast
// enough and is rebuilt once per k.
package primetable

import "math"

// Table is the ordered list of primes p_1=2, p_2=3, ... <= k.
type Table struct {
	Primes []uint64
}

// Build sieves every prime <= k. For k < 2 the table is empty.
func Build(k uint64) Table {
	if k < 2 {
		return Table{}
	}

	composite := make([]bool, k+1)
	limit := uint64(math.Sqrt(float64(k)))
	for p := uint64(2); p <= limit; p++ {
		if composite[p] {
			continue
		}
		for j := p * p; j <= k; j += p {
			composite[j] = true
		}
	}

	primes := make([]uint64, 0, estimate(k))
	for p := uint64(2); p <= k; p++ {
		if !composite[p] {
			primes = append(primes, p)
		}
	}
	return Table{Primes: primes}
}

// estimate returns a capacity guess via the prime number theorem so
// Build rarely needs to grow its slice.
func estimate(k uint64) int {
	if k < 4 {
		return 2
	}
	n := float64(k)
	return int(n/math.Log(n)*1.2) + 8
}

// Len reports the number of primes in the table.
func (t Table) Len() int { return len(t.Primes) }
