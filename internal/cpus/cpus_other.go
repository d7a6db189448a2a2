//go:build !linux

package cpus

import "runtime"

// physicalCores falls back to the logical CPU count on platforms this
// shim has no topology-reading path for.
func physicalCores() int {
	return runtime.NumCPU()
}
