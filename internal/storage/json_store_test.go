package storage

import (
	"os"
	"path/filepath"
	"testing"
)

type snapshot struct {
	Items map[string]string `json:"items"`
}

func TestJSONStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewJSONStore(dir, "things.json")
	if err != nil {
		t.Fatalf("NewJSONStore failed: %v", err)
	}
	if store.Exists() {
		t.Fatal("store should not exist before first save")
	}

	var empty snapshot
	if err := store.Load(&empty); err != nil {
		t.Fatalf("Load of missing file should not fail: %v", err)
	}
	if empty.Items != nil {
		t.Errorf("expected untouched value, got %v", empty.Items)
	}

	in := snapshot{Items: map[string]string{"a": "1", "b": "2"}}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp")); len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}

	var out snapshot
	if err := store.Load(&out); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out.Items) != 2 || out.Items["b"] != "2" {
		t.Errorf("unexpected snapshot %v", out.Items)
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if store.Exists() {
		t.Error("store should be gone after Remove")
	}
	if err := store.Remove(); err != nil {
		t.Errorf("second Remove should be a no-op: %v", err)
	}
}

func TestJSONStoreLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.json"), nil, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := NewJSONStore(dir, "empty.json")
	if err != nil {
		t.Fatalf("NewJSONStore failed: %v", err)
	}
	var out snapshot
	if err := store.Load(&out); err != nil {
		t.Errorf("empty file should load as nothing: %v", err)
	}
}

func TestJSONStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := NewJSONStore(dir, "bad.json")
	if err != nil {
		t.Fatalf("NewJSONStore failed: %v", err)
	}
	var out snapshot
	if err := store.Load(&out); err == nil {
		t.Error("expected decode error for corrupt file")
	}
}
