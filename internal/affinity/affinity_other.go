//go:build !linux

package affinity

import "runtime"

// Pin is a no-op on platforms without a scheduler affinity syscall;
// the worker still runs correctly, just without the pinning guarantee.
func Pin(cpu int) error { return nil }

// LowerPriority is a no-op outside Linux.
func LowerPriority() error { return nil }

// NumCPU falls back to the Go runtime's view of available cores.
func NumCPU() int { return runtime.NumCPU() }
