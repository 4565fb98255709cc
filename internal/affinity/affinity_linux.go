//go:build linux

// Package affinity pins the calling OS thread to a single logical core
// so worker goroutines never migrate mid-epoch, matching the static
// strided scheduling model the search relies on.
package affinity

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Pin restricts the calling OS thread to logical core cpu. It does not
// lock the goroutine to that thread; the caller must have already
// called runtime.LockOSThread.
func Pin(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrapf(err, "affinity: pin to cpu %d", cpu)
	}
	return nil
}

// LowerPriority asks the scheduler to treat this process as
// below-normal priority so the host stays responsive during long runs,
// per the CLI's documented "best effort" contract.
func LowerPriority() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, 10); err != nil {
		return errors.Wrap(err, "affinity: lower process priority")
	}
	return nil
}

// NumCPU reports the number of logical cores available for pinning,
// spanning every processor group the host exposes.
func NumCPU() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0
	}
	return set.Count()
}
