package rip

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"discripper/internal/disc"
)

var errProbeFailed = errors.New("probe failed")

func dvdbackupTestPlan() Plan {
	return Plan{
		Device:      "/dev/sr0",
		Title:       disc.Title{Label: "Main Feature"},
		Destination: "/out/movie.mp4",
		Command:     []string{"dvdbackup", "-i", "/dev/sr0", "-o", "/out", "-n", "movie", "-F"},
		WillExecute: true,
	}
}

func sampledSizes(samples ...int64) func(string) int64 {
	index := 0
	return func(string) int64 {
		if index >= len(samples) {
			return samples[len(samples)-1]
		}
		sample := samples[index]
		index++
		return sample
	}
}

func TestDvdbackupReporterEmitsOnChange(t *testing.T) {
	sink := &recordSink{}
	clock := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
	probe := func(string) (int64, error) { return 4096, nil }
	reporter := newDvdbackupReporter(dvdbackupTestPlan(), sink, probe, clock, sampledSizes(0, 1024, 1024, 2048))

	for range 4 {
		reporter.HandleIdle()
	}

	if len(sink.lines) != 2 {
		t.Fatalf("events = %v", sink.lines)
	}
	if !strings.Contains(sink.lines[0], "PCT=25.0") || !strings.Contains(sink.lines[0], "BYTES_DONE=1024") {
		t.Fatalf("first event = %q", sink.lines[0])
	}
	if !strings.Contains(sink.lines[1], "PCT=50.0") || !strings.Contains(sink.lines[1], "BYTES_DONE=2048") {
		t.Fatalf("second event = %q", sink.lines[1])
	}
	for _, line := range sink.lines {
		if !strings.Contains(line, "BACKEND=dvdbackup") || !strings.Contains(line, "BYTES_TOTAL=4096") {
			t.Fatalf("event = %q", line)
		}
	}
}

func TestDvdbackupReporterUnknownTotalSpinner(t *testing.T) {
	sink := &recordSink{}
	clock := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
	probe := func(string) (int64, error) { return 0, errProbeFailed }
	reporter := newDvdbackupReporter(dvdbackupTestPlan(), sink, probe, clock, sampledSizes(512))

	reporter.HandleIdle()

	if len(sink.lines) != 1 {
		t.Fatalf("events = %v", sink.lines)
	}
	event := sink.lines[0]
	for _, want := range []string{"SPINNER=true", "BYTES_TOTAL=unknown", "BYTES_DONE=512"} {
		if !strings.Contains(event, want) {
			t.Fatalf("event %q missing %q", event, want)
		}
	}
	if strings.Contains(event, "PCT=") {
		t.Fatalf("event %q has a percentage without a known total", event)
	}
}

func TestDvdbackupReporterThrottlesPolling(t *testing.T) {
	sink := &recordSink{}
	calls := 0
	dirSize := func(string) int64 {
		calls++
		return int64(calls) * 1024
	}
	clock := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 100*time.Millisecond)
	probe := func(string) (int64, error) { return 4096, nil }
	reporter := newDvdbackupReporter(dvdbackupTestPlan(), sink, probe, clock, dirSize)

	// The fake clock advances 100ms per reading and each emission reads it
	// once more, so polls land on every other idle call once throttled.
	for range 6 {
		reporter.HandleIdle()
	}

	if calls != 3 {
		t.Fatalf("dirSize called %d times, want 3", calls)
	}
}

func TestDvdbackupReporterFinalizeForcesEmission(t *testing.T) {
	sink := &recordSink{}
	clock := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
	probe := func(string) (int64, error) { return 4096, nil }
	reporter := newDvdbackupReporter(dvdbackupTestPlan(), sink, probe, clock, sampledSizes(2048, 2048))

	reporter.HandleIdle()
	reporter.Finalize(true)

	if len(sink.lines) != 2 {
		t.Fatalf("events = %v", sink.lines)
	}
	for _, line := range sink.lines {
		if !strings.Contains(line, "PCT=50.0") {
			t.Fatalf("event = %q", line)
		}
	}
}

func TestDvdbackupReporterFinalizeFailureEmitsNothing(t *testing.T) {
	sink := &recordSink{}
	probe := func(string) (int64, error) { return 4096, nil }
	reporter := newDvdbackupReporter(dvdbackupTestPlan(), sink, probe, nil, sampledSizes(2048))

	reporter.Finalize(false)

	if len(sink.lines) != 0 {
		t.Fatalf("events = %v", sink.lines)
	}
}

func TestDvdbackupReporterWatchesLabelDirectory(t *testing.T) {
	sink := &recordSink{}
	var watched string
	dirSize := func(path string) int64 {
		watched = path
		return 1024
	}
	probe := func(string) (int64, error) { return 4096, nil }
	reporter := newDvdbackupReporter(dvdbackupTestPlan(), sink, probe, nil, dirSize)

	reporter.HandleIdle()

	want := filepath.Join("/out", "movie")
	if watched != want {
		t.Fatalf("watched %q, want %q", watched, want)
	}
}
