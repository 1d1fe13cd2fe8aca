package storage

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestKV creates an in-memory SQLite key-value store for testing.
func openTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitDB(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return NewSQLiteKV(db)
}

// TestSQLiteKV_GetMissing tests that an unwritten key reports absent.
func TestSQLiteKV_GetMissing(t *testing.T) {
	kv := openTestKV(t)

	_, ok, err := kv.Get(context.Background(), "accountSandboxes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected missing key to report ok=false")
	}
}

// TestSQLiteKV_SetGetRoundTrip tests write-then-read.
func TestSQLiteKV_SetGetRoundTrip(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "accountSandboxes", `{"Acme":[]}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := kv.Get(ctx, "accountSandboxes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got != `{"Acme":[]}` {
		t.Errorf("Get = %q, want stored value", got)
	}

	// Last write wins.
	if err := kv.Set(ctx, "accountSandboxes", `{}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _, _ = kv.Get(ctx, "accountSandboxes")
	if got != `{}` {
		t.Errorf("Get after overwrite = %q, want {}", got)
	}
}

// TestSQLiteKV_DeleteAndKeys tests deletion and key listing.
func TestSQLiteKV_DeleteAndKeys(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	kv.Set(ctx, "organizationSandboxes", `{}`)
	kv.Set(ctx, "accountSandboxes", `{}`)

	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"accountSandboxes", "organizationSandboxes"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys = %v, want %v", keys, want)
	}

	if err := kv.Delete(ctx, "accountSandboxes"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "accountSandboxes"); ok {
		t.Error("expected deleted key to be absent")
	}

	// Deleting an absent key is a no-op.
	if err := kv.Delete(ctx, "accountSandboxes"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

// TestTimedKV_PassesThrough tests the wrapper delegates to the inner store.
func TestTimedKV_PassesThrough(t *testing.T) {
	kv := NewTimedKV(openTestKV(t))
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Errorf("Get = (%q, %v, %v), want (v, true, nil)", got, ok, err)
	}
	keys, err := kv.Keys(ctx)
	if err != nil || len(keys) != 1 {
		t.Errorf("Keys = (%v, %v), want 1 key", keys, err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Error("expected key deleted through wrapper")
	}
}
