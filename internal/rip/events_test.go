package rip

import (
	"testing"
	"time"
)

func TestProgressEventFieldOrder(t *testing.T) {
	event := progressEvent{
		backend:      "ffmpeg",
		pct:          42.5,
		hasPct:       true,
		eta:          90 * time.Second,
		hasETA:       true,
		speed:        "1.5x",
		elapsed:      time.Hour + 2*time.Minute + 3*time.Second,
		bytesDone:    1024,
		hasBytesDone: true,
		bytesTotal:   4096,
		totalKnown:   true,
		showTotal:    true,
	}
	want := "EVENT=PROGRESS BACKEND=ffmpeg PCT=42.5 ETA=00:01:30 SPEED=1.5x ELAPSED=01:02:03 BYTES_DONE=1024 BYTES_TOTAL=4096"
	if got := event.line(); got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestProgressEventSpinnerUnknownTotal(t *testing.T) {
	event := progressEvent{
		backend:      "dvdbackup",
		elapsed:      5 * time.Second,
		bytesDone:    512,
		hasBytesDone: true,
		showTotal:    true,
		spinner:      true,
	}
	want := "EVENT=PROGRESS BACKEND=dvdbackup ELAPSED=00:00:05 BYTES_DONE=512 BYTES_TOTAL=unknown SPINNER=true"
	if got := event.line(); got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestQuoteCommand(t *testing.T) {
	got := quoteCommand([]string{"dvdbackup", "-n", "My Movie", "-o", "/out", ""})
	want := `dvdbackup -n 'My Movie' -o /out ''`
	if got != want {
		t.Fatalf("quoteCommand = %q, want %q", got, want)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{61 * time.Second, "00:01:01"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.in); got != tc.want {
			t.Fatalf("formatClock(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
