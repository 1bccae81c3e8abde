package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMetadata(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	got, err := db.GetMetadata(ctx, "etag")
	if err != nil || got != "" {
		t.Fatalf("GetMetadata(missing) = %q, %v; want empty, nil", got, err)
	}

	if err := db.SetMetadata(ctx, "etag", `"abc"`); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata(ctx, "etag", `"def"`); err != nil {
		t.Fatal(err)
	}
	if got, _ := db.GetMetadata(ctx, "etag"); got != `"def"` {
		t.Errorf("GetMetadata(etag) = %q, want %q", got, `"def"`)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	sel, err := db.LoadSelection(ctx, "s1")
	if err != nil || sel != nil {
		t.Fatalf("LoadSelection(unknown) = %+v, %v; want nil, nil", sel, err)
	}

	if err := db.SaveSelection(ctx, "s1", "Walnut Creek", ""); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSelection(ctx, "s1", "Walnut Creek", "Embarcadero"); err != nil {
		t.Fatal(err)
	}

	sel, err = db.LoadSelection(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if sel.Departure != "Walnut Creek" || sel.Destination != "Embarcadero" {
		t.Errorf("selection = %+v", sel)
	}
	if sel.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	if err := db.DeleteSelection(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if sel, _ := db.LoadSelection(ctx, "s1"); sel != nil {
		t.Errorf("selection after delete = %+v, want nil", sel)
	}
}

func TestPurgeSelections(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	db.SaveSelection(ctx, "old", "Concord", "")
	db.SaveSelection(ctx, "new", "Orinda", "")
	if _, err := db.ExecContext(ctx,
		`UPDATE selections SET updated_at = datetime('now', '-30 days') WHERE session_id = 'old'`); err != nil {
		t.Fatal(err)
	}

	n, err := db.PurgeSelections(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged %d rows, want 1", n)
	}
	if sel, _ := db.LoadSelection(ctx, "new"); sel == nil {
		t.Error("recent selection should survive the purge")
	}
}
