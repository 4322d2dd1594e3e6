package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Entry{
		SessionID:   "session-1",
		Device:      "/dev/sr0",
		DiscLabel:   "MY_MOVIE",
		Destination: "/out/my-movie.mp4",
		Backend:     "dvdbackup",
		Bytes:       4096,
		Status:      StatusSuccess,
	}
	if _, err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := Entry{
		SessionID:   "session-2",
		Device:      "/dev/sr0",
		Destination: "/out/other.mp4",
		Backend:     "ffmpeg",
		ExitCode:    2,
		Status:      StatusFailed,
	}
	if _, err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	// Newest first.
	if entries[0].SessionID != "session-2" || entries[1].SessionID != "session-1" {
		t.Fatalf("order = %s, %s", entries[0].SessionID, entries[1].SessionID)
	}
	if entries[1].DiscLabel != "MY_MOVIE" || entries[1].Bytes != 4096 || entries[1].Status != StatusSuccess {
		t.Fatalf("entry = %+v", entries[1])
	}
	if entries[0].ExitCode != 2 {
		t.Fatalf("exit code = %d", entries[0].ExitCode)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatal("created_at not recorded")
	}
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, Entry{SessionID: "s", Device: "/dev/sr0", Destination: "/out/x.mp4", Status: StatusSuccess}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	entries, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
}

func TestBySession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, session := range []string{"a", "b", "a"} {
		if _, err := store.Record(ctx, Entry{SessionID: session, Device: "/dev/sr0", Destination: "/out/x.mp4", Status: StatusSuccess}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	entries, err := store.BySession(ctx, "a")
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID > entries[1].ID {
		t.Fatal("session entries must be in insertion order")
	}
}

func TestRecordPreservesExplicitTimestamp(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	if _, err := store.Record(ctx, Entry{SessionID: "s", Device: "/dev/sr0", Destination: "/out/x.mp4", Status: StatusSkipped, CreatedAt: at}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !entries[0].CreatedAt.Equal(at) {
		t.Fatalf("created_at = %v, want %v", entries[0].CreatedAt, at)
	}
}
