package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bitlit.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Fatalf("dialect = %q, want sqlite3", s.Dialect())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenDriver_Unsupported(t *testing.T) {
	if _, err := OpenDriver(context.Background(), "oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	if got := withPragmas("a.db"); got[:5] != "a.db?" {
		t.Errorf("expected ? separator, got %q", got)
	}
	if got := withPragmas("file:a.db?mode=rwc"); got[:19] != "file:a.db?mode=rwc&" {
		t.Errorf("expected & separator, got %q", got)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"snapshots", "llm_request_events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bitlit.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SnapshotRepo().Save(ctx, &Snapshot{Name: "anon_a", Data: SnapshotData{Language: "en", XP: 130, Level: 2}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	snap, err := s.SnapshotRepo().Latest(ctx, "anon_a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil || snap.Data.XP != 130 {
		t.Fatalf("expected persisted snapshot, got %+v", snap)
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx, "anon_a")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Name:      "anon_a",
		Timestamp: now,
		Data: SnapshotData{
			Language:         "es",
			XP:               155,
			Level:            2,
			Achievements:     []string{"first_lesson"},
			CompletedModules: []string{"basics", "budget"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx, "anon_a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Name != "anon_a" {
		t.Errorf("name = %q, want anon_a", snap.Name)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
	if snap.Data.Language != "es" || snap.Data.XP != 155 || snap.Data.Level != 2 {
		t.Errorf("unexpected data: %+v", snap.Data)
	}
	if len(snap.Data.CompletedModules) != 2 || snap.Data.Achievements[0] != "first_lesson" {
		t.Errorf("unexpected lists: %+v", snap.Data)
	}

	// Other names are isolated.
	other, err := repo.Latest(ctx, "anon_b")
	if err != nil {
		t.Fatalf("latest other: %v", err)
	}
	if other != nil {
		t.Fatal("expected no snapshot for a different name")
	}
}

func TestSnapshotSaveRequiresName(t *testing.T) {
	s := openTestStore(t)
	if err := s.SnapshotRepo().Save(context.Background(), &Snapshot{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestSnapshotNilListsRoundTripAsEmpty(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, &Snapshot{Name: "anon_a", Data: SnapshotData{Language: "en", Level: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := repo.Latest(ctx, "anon_a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.Achievements == nil || snap.Data.CompletedModules == nil {
		t.Fatalf("expected empty lists, got %+v", snap.Data)
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			Name:      "anon_a",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{XP: (i + 1) * 10},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx, "anon_a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.XP != 30 {
		t.Errorf("data.xp = %d, want 30", snap.Data.XP)
	}
}

func countSnapshots(t *testing.T, s *Store, name string) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots WHERE name = ?", name).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			Name:      "anon_a",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{XP: i + 1},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Save(ctx, &Snapshot{Name: "anon_b", Data: SnapshotData{XP: 99}}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	// Prune to keep 5.
	if err := repo.Prune(ctx, "anon_a", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if count := countSnapshots(t, s, "anon_a"); count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}
	if count := countSnapshots(t, s, "anon_b"); count != 1 {
		t.Errorf("other learner snapshots = %d, want 1", count)
	}

	snap, err := repo.Latest(ctx, "anon_a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.XP != 7 {
		t.Errorf("latest xp = %d, want 7", snap.Data.XP)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, &Snapshot{Name: "anon_a"}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune with keep=5 should be a no-op.
	if err := repo.Prune(ctx, "anon_a", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if count := countSnapshots(t, s, "anon_a"); count != 2 {
		t.Errorf("remaining snapshots = %d, want 2", count)
	}
}

func TestSnapshotDeleteAndNames(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for _, name := range []string{"anon_b", "anon_a", "anon_b"} {
		if err := repo.Save(ctx, &Snapshot{Name: name}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	names, err := repo.Names(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "anon_a" || names[1] != "anon_b" {
		t.Fatalf("names = %v, want [anon_a anon_b]", names)
	}

	if err := repo.Delete(ctx, "anon_b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if count := countSnapshots(t, s, "anon_b"); count != 0 {
		t.Errorf("expected anon_b snapshots deleted, %d remain", count)
	}
	if count := countSnapshots(t, s, "anon_a"); count != 1 {
		t.Errorf("expected anon_a untouched, got %d", count)
	}
}
