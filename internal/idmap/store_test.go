package idmap_test

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tracekit/synthnorm/internal/idmap"
	"github.com/tracekit/synthnorm/internal/trace"
)

func newTestStore(t *testing.T) *idmap.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := idmap.NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStore_RecordAndLookup(t *testing.T) {
	store := newTestStore(t)

	assignments := []trace.Assignment{
		{Raw: 5, Normalized: 0},
		{Raw: 9, Normalized: 1},
		{Raw: 31, Normalized: 2},
	}
	if err := store.RecordRun("run-a", assignments); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	for _, a := range assignments {
		got, ok, err := store.Lookup("run-a", a.Raw)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", a.Raw, err)
		}
		if !ok {
			t.Fatalf("Lookup(%d): no assignment found", a.Raw)
		}
		if got != a.Normalized {
			t.Errorf("Lookup(%d) = %d, want %d", a.Raw, got, a.Normalized)
		}
	}
}

func TestStore_LookupMiss(t *testing.T) {
	store := newTestStore(t)

	if err := store.RecordRun("run-a", []trace.Assignment{{Raw: 5, Normalized: 0}}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	t.Run("unknown raw id", func(t *testing.T) {
		_, ok, err := store.Lookup("run-a", 99)
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if ok {
			t.Error("expected miss for unrecorded raw id")
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		_, ok, err := store.Lookup("run-b", 5)
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if ok {
			t.Error("expected miss for unrecorded run")
		}
	})
}

func TestStore_Runs(t *testing.T) {
	store := newTestStore(t)

	if err := store.RecordRun("run-a", []trace.Assignment{{Raw: 5, Normalized: 0}}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.RecordRun("run-b", []trace.Assignment{{Raw: 7, Normalized: 0}}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := store.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	seen := map[string]bool{}
	for _, r := range runs {
		seen[r] = true
	}
	if !seen["run-a"] || !seen["run-b"] {
		t.Errorf("runs = %v, want both run-a and run-b", runs)
	}
}

func TestStore_EmptyRun(t *testing.T) {
	store := newTestStore(t)

	if err := store.RecordRun("empty", nil); err != nil {
		t.Fatalf("RecordRun with no assignments: %v", err)
	}
	runs, err := store.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0 for empty record", len(runs))
	}
}
