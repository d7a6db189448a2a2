//go:build linux

package cpus

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// physicalCores reads /sys/devices/system/cpu/cpu*/topology/core_id to
// count distinct physical cores per package, falling back to
// runtime.NumCPU (logical cores) if sysfs is unavailable (containers
// often hide it).
func physicalCores() int {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return runtime.NumCPU()
	}

	entries, err := os.ReadDir("/sys/devices/system/cpu")
	if err != nil {
		return runtime.NumCPU()
	}

	seen := make(map[string]struct{})
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "cpu") {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimPrefix(name, "cpu")); err != nil {
			continue
		}
		pkg, perr := os.ReadFile("/sys/devices/system/cpu/" + name + "/topology/physical_package_id")
		core, cerr := os.ReadFile("/sys/devices/system/cpu/" + name + "/topology/core_id")
		if perr != nil || cerr != nil {
			continue
		}
		seen[strings.TrimSpace(string(pkg))+":"+strings.TrimSpace(string(core))] = struct{}{}
	}
	if len(seen) == 0 {
		return runtime.NumCPU()
	}
	return len(seen)
}
