package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"discripper/internal/config"
	"discripper/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the floor below which the output filesystem is considered
// too full to start a rip. A single-layer DVD image needs about 4.7 GB.
const minFreeBytes = 5 << 30

// statfsFunc reports available bytes for a path. Swapped in tests.
type statfsFunc func(path string) (uint64, error)

func realStatfs(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// RunAll executes every applicable check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDevice(cfg.Device),
		CheckOutputDirectory(cfg.OutputDirectory),
		checkFreeSpace(cfg.OutputDirectory, realStatfs),
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(), nil) {
		results = append(results, toolResult(status))
	}
	return results
}

// CheckDevice verifies the optical device node exists and is readable.
func CheckDevice(device string) Result {
	const name = "Disc device"
	info, err := os.Stat(device)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", device)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", device, err)}
	}
	if info.Mode()&os.ModeDevice == 0 && !info.Mode().IsRegular() {
		// Regular files are allowed: image-backed rips and tests use them.
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a device node)", device)}
	}
	if err := unix.Access(device, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", device, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", device)}
}

// CheckOutputDirectory verifies the rip target directory exists and is
// writable.
func CheckOutputDirectory(path string) Result {
	const name = "Output directory"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func checkFreeSpace(path string, statfs statfsFunc) Result {
	const name = "Free space"
	free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GB free, need %.1f GB)", path, gigabytes(free), gigabytes(minFreeBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GB free)", path, gigabytes(free))}
}

func gigabytes(v uint64) float64 {
	return float64(v) / (1 << 30)
}

func toolResult(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available}
	if status.Available {
		result.Detail = status.Command
		return result
	}
	result.Detail = status.Detail
	if status.Optional {
		result.Passed = true
		result.Detail = status.Detail + " (optional)"
	}
	return result
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
