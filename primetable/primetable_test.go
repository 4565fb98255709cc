package primetable

import "testing"

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		k    uint64
		want []uint64
	}{
		{"k=0", 0, nil},
		{"k=1", 1, nil},
		{"k=2", 2, []uint64{2}},
		{"k=3", 3, []uint64{2, 3}},
		{"k=10", 10, []uint64{2, 3, 5, 7}},
		{"k=30", 30, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.k).Primes
			if len(got) != len(tt.want) {
				t.Fatalf("Build(%d) = %v, want %v", tt.k, got, tt.want)
			}
			for i, p := range got {
				if p != tt.want[i] {
					t.Errorf("Build(%d)[%d] = %d, want %d", tt.k, i, p, tt.want[i])
				}
			}
		})
	}
}

func TestBuildIsOrdered(t *testing.T) {
	table := Build(997)
	for i := 1; i < len(table.Primes); i++ {
		if table.Primes[i] <= table.Primes[i-1] {
			t.Fatalf("primes out of order at %d: %d <= %d", i, table.Primes[i], table.Primes[i-1])
		}
	}
}

func TestBuildAllPrime(t *testing.T) {
	isPrime := func(n uint64) bool {
		if n < 2 {
			return false
		}
		for d := uint64(2); d*d <= n; d++ {
			if n%d == 0 {
				return false
			}
		}
		return true
	}

	table := Build(500)
	for _, p := range table.Primes {
		if !isPrime(p) {
			t.Errorf("Build(500) contains non-prime %d", p)
		}
	}
	// every prime <= 500 must appear
	for n := uint64(2); n <= 500; n++ {
		if isPrime(n) {
			found := false
			for _, p := range table.Primes {
				if p == n {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Build(500) missing prime %d", n)
			}
		}
	}
}
