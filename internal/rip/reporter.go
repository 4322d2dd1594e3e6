package rip

import (
	"io/fs"
	"path/filepath"
	"time"
)

const (
	streamStdout = "stdout"
	streamStderr = "stderr"
)

// Reporter consumes process output and timing hooks for exactly one
// execution. Implementations keep per-run state and are never reused.
type Reporter interface {
	HandleLine(stream, line string)
	HandleIdle()
	Finalize(success bool)
}

// VolumeProber estimates the total byte count a rip of the device will
// produce. Probe failure leaves the total unknown; it is never fatal.
type VolumeProber func(device string) (int64, error)

// newReporter selects the reporter variant matching the plan's tool. Unknown
// tools get a no-op reporter so the executor loop stays uniform.
func newReporter(plan Plan, sink EventSink, probe VolumeProber, now func() time.Time) Reporter {
	switch plan.Backend() {
	case "ffmpeg":
		return newFFmpegReporter(plan.Title.Duration, sink, now)
	case "dvdbackup":
		return newDvdbackupReporter(plan, sink, probe, now, directorySize)
	default:
		return nopReporter{}
	}
}

type nopReporter struct{}

func (nopReporter) HandleLine(string, string) {}
func (nopReporter) HandleIdle()               {}
func (nopReporter) Finalize(bool)             {}

// directorySize sums regular-file sizes under root. Missing or unreadable
// entries count as zero; dvdbackup creates the tree as it goes.
func directorySize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if info, infoErr := entry.Info(); infoErr == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
