package disc_test

import (
	"testing"
	"time"

	"discripper/internal/disc"
)

func TestParseFFprobeOutput(t *testing.T) {
	payload := `{"format": {"duration": "5701.5", "tags": {"title": "Some Movie"}}}`
	parsed, err := disc.ParseFFprobeOutput([]byte(payload))
	if err != nil {
		t.Fatalf("ParseFFprobeOutput returned error: %v", err)
	}
	if parsed.Label != "Some Movie" {
		t.Fatalf("unexpected label: %q", parsed.Label)
	}
	if len(parsed.Titles) != 1 {
		t.Fatalf("expected single title, got %d", len(parsed.Titles))
	}
	if parsed.Titles[0].Duration != 5701500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", parsed.Titles[0].Duration)
	}
	if parsed.Titles[0].Label != "Some Movie" {
		t.Fatalf("unexpected title label: %q", parsed.Titles[0].Label)
	}
}

func TestParseFFprobeOutputWithoutTags(t *testing.T) {
	parsed, err := disc.ParseFFprobeOutput([]byte(`{"format": {"duration": "10"}}`))
	if err != nil {
		t.Fatalf("ParseFFprobeOutput returned error: %v", err)
	}
	if parsed.Label != "Unknown Disc" {
		t.Fatalf("expected fallback label, got %q", parsed.Label)
	}
	if parsed.Titles[0].Label != "Title" {
		t.Fatalf("expected generic title label, got %q", parsed.Titles[0].Label)
	}
}

func TestParseFFprobeOutputRejectsGarbage(t *testing.T) {
	if _, err := disc.ParseFFprobeOutput([]byte("}{")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
