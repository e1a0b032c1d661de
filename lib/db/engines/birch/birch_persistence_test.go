package birch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jkvdb/jKV/lib/db"
)

// TestReopen verifies that data written before Close is visible after a fresh open.
func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.birch")

	first, err := NewBirchDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	first.Put("a", "111")
	first.Put("b", "222")
	first.Put("c", "333")
	if err := first.Delete("b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewBirchDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if n := second.Len(); n != 2 {
		t.Errorf("expected 2 keys after reopen, got %d", n)
	}
	if value, ok := second.Get("a"); !ok || value != "111" {
		t.Errorf("key a: got %q ok=%v", value, ok)
	}
	if second.Has("b") {
		t.Errorf("deleted key b survived reopen")
	}
	if value, ok := second.Get("c"); !ok || value != "333" {
		t.Errorf("key c: got %q ok=%v", value, ok)
	}
}

// TestSyncIsAtomic verifies that Sync never leaves a half-written data file:
// the temporary file is gone and the final file loads cleanly.
func TestSyncIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atomic.birch")

	database, err := NewBirchDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	database.Put("k", "v")
	if err := database.(*birchImpl).Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file left behind after sync")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("data file missing after sync: %v", err)
	}
}

// TestRejectsForeignFile verifies that a file without the birch magic number
// is rejected on open.
func TestRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.birch")
	if err := os.WriteFile(path, []byte("not a birch file at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewBirchDB(path); err == nil {
		t.Fatal("expected error opening a non-birch file")
	}
}

// TestInfo verifies the reported metadata.
func TestInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.birch")

	database, err := NewBirchDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	database.Put("x", "y")

	info := database.GetInfo()
	if info.DbType != db.ImplBirch {
		t.Errorf("expected db type %s, got %s", db.ImplBirch, info.DbType)
	}
	if info.Keys != 1 {
		t.Errorf("expected 1 key, got %d", info.Keys)
	}
	if !database.SupportsFeature(db.FeaturePersist) {
		t.Errorf("birch should support FeaturePersist")
	}
}
