package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	in := Session{
		Preset:       "classic",
		Seed:         42,
		Source:       SourceSSH,
		Moves:        17,
		Resolutions:  17,
		Destroyed:    96,
		Shuffles:     2,
		Fallbacks:    1,
		LargestGroup: 14,
		Deadlocked:   true,
		Duration:     95,
	}
	id, err := store.SaveSession(in)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("SaveSession() returned non-UUID id %q", id)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("SessionByID() returned nil")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	got.CreatedAt = in.CreatedAt
	in.ID = id
	if *got != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, in)
	}
}

func TestStoreSessionByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.SessionByID(uuid.NewString())
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestStoreDefaultSource(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveSession(Session{Preset: "mini"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := store.SessionByID(id)
	if err != nil || got == nil {
		t.Fatalf("SessionByID() = %v, %v", got, err)
	}
	if got.Source != SourcePlay {
		t.Errorf("Source = %q, want %q", got.Source, SourcePlay)
	}
}

func TestStoreDuplicateID(t *testing.T) {
	store := openTestStore(t)

	id := uuid.NewString()
	if _, err := store.SaveSession(Session{ID: id, Preset: "mini"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSession(Session{ID: id, Preset: "mini"}); err == nil {
		t.Error("expected error for duplicate session id")
	}
}

func TestStoreRecentSessions(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		if _, err := store.SaveSession(Session{Preset: "classic", Moves: i}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SaveSession(Session{Preset: "wide", Moves: 100}); err != nil {
		t.Fatal(err)
	}

	all, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("Expected 6 sessions, got %d", len(all))
	}
	if all[0].Preset != "wide" {
		t.Errorf("newest session = %+v, want the wide one", all[0])
	}

	classic, err := store.RecentSessions("classic", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(classic) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(classic))
	}
	for i, want := range []int{4, 3, 2} {
		if classic[i].Moves != want {
			t.Errorf("classic[%d].Moves = %d, want %d", i, classic[i].Moves, want)
		}
	}
}

func TestStoreRecentSessionsDefaultLimit(t *testing.T) {
	store := openTestStore(t)

	for range 25 {
		if _, err := store.SaveSession(Session{Preset: "mini"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := store.RecentSessions("mini", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 20 {
		t.Errorf("Expected 20 sessions, got %d", len(got))
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(Session{Preset: "classic"})
	store.SaveSession(Session{Preset: "mini"})

	if err := store.ClearSessions("classic"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	left, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Preset != "mini" {
		t.Errorf("after clear: %+v", left)
	}
}

func TestStorePresetStats(t *testing.T) {
	store := openTestStore(t)

	sessions := []Session{
		{Preset: "classic", Moves: 10, Destroyed: 50, LargestGroup: 9},
		{Preset: "classic", Moves: 20, Destroyed: 70, LargestGroup: 12, Deadlocked: true},
		{Preset: "mini", Moves: 4, Destroyed: 12, LargestGroup: 5},
	}
	for _, s := range sessions {
		if _, err := store.SaveSession(s); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.AllPresetStats()
	if err != nil {
		t.Fatalf("AllPresetStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 presets, got %d", len(stats))
	}

	c := stats["classic"]
	if c.Sessions != 2 || c.Moves != 30 || c.Destroyed != 120 || c.LargestGroup != 12 || c.Deadlocks != 1 {
		t.Errorf("classic stats = %+v", *c)
	}
	if c.AvgMoves != 15 {
		t.Errorf("AvgMoves = %v, want 15", c.AvgMoves)
	}
	if c.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
