package pushkin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/asydorov/sygnal/internal/infrastructure/database"
	_ "github.com/asydorov/sygnal/migrations"
)

// openRejectionDB creates a migrated database in a temporary directory.
func openRejectionDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

// ─── Rejection Log Tests ───────────────────────────────────────────

func TestRecordAndList(t *testing.T) {
	log := NewRejectionLog(openRejectionDB(t))
	ctx := context.Background()

	if err := log.Record(ctx, "com.example.app", "DEAD_KEY_1", "rejected by remote"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := log.Record(ctx, "com.example.app", "DEAD_KEY_2", "invalid mqtt topic"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := log.Record(ctx, "com.example.other", "OTHER_KEY", "rejected by remote"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	rejected, err := log.List(ctx, "com.example.app", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rejected) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(rejected))
	}
	for _, r := range rejected {
		if r.AppID != "com.example.app" {
			t.Errorf("AppID = %q, want com.example.app", r.AppID)
		}
	}
}

func TestRecordUpsert(t *testing.T) {
	log := NewRejectionLog(openRejectionDB(t))
	ctx := context.Background()

	if err := log.Record(ctx, "com.example.app", "KEY", "first reason"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := log.Record(ctx, "com.example.app", "KEY", "second reason"); err != nil {
		t.Fatalf("re-Record() error = %v", err)
	}

	rejected, err := log.List(ctx, "com.example.app", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rejected) != 1 {
		t.Fatalf("len(List()) = %d, want 1 after upsert", len(rejected))
	}
	if rejected[0].Reason != "second reason" {
		t.Errorf("Reason = %q, want second reason", rejected[0].Reason)
	}
}

func TestListLimit(t *testing.T) {
	log := NewRejectionLog(openRejectionDB(t))
	ctx := context.Background()

	for _, key := range []string{"K1", "K2", "K3"} {
		if err := log.Record(ctx, "com.example.app", key, "rejected by remote"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	rejected, err := log.List(ctx, "com.example.app", 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rejected) != 2 {
		t.Errorf("len(List()) = %d, want 2", len(rejected))
	}
}

func TestListEmptyApp(t *testing.T) {
	log := NewRejectionLog(openRejectionDB(t))

	rejected, err := log.List(context.Background(), "com.example.unknown", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rejected) != 0 {
		t.Errorf("len(List()) = %d, want 0", len(rejected))
	}
}
