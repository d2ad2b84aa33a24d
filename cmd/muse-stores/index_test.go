package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
	"github.com/muse-loyalty/muse-stores/internal/storage"
)

// buildTestIndex writes a dataset file and an index built from it.
func buildTestIndex(t *testing.T, dir, name string) (*storage.DB, string) {
	t.Helper()

	dataset := filepath.Join(dir, name)
	if err := os.WriteFile(dataset, []byte(`[{"nodes": []}]`), 0644); err != nil {
		t.Fatal(err)
	}

	db, err := storage.OpenDB(filepath.Join(dir, "stores.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stores := []catalog.Store{{ID: "A1", Name: "FROM A", Region: "Kuwait", POSKey: "A1"}}
	if _, err := db.RebuildFromStores(stores, absPath(dataset)); err != nil {
		t.Fatalf("RebuildFromStores() error = %v", err)
	}
	return db, dataset
}

func TestCheckIndexCurrent(t *testing.T) {
	dir := t.TempDir()
	db, dataset := buildTestIndex(t, dir, "a.json")

	if err := checkIndexCurrent(db, dataset); err != nil {
		t.Errorf("checkIndexCurrent(same dataset) error = %v", err)
	}
}

func TestCheckIndexCurrent_RelativePath(t *testing.T) {
	dir := t.TempDir()
	db, _ := buildTestIndex(t, dir, "a.json")

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldDir) })
	if err := checkIndexCurrent(db, "a.json"); err != nil {
		t.Errorf("checkIndexCurrent(relative path) error = %v", err)
	}
	if err := checkIndexCurrent(db, "./a.json"); err != nil {
		t.Errorf("checkIndexCurrent(unclean path) error = %v", err)
	}
}

func TestCheckIndexCurrent_OtherDataset(t *testing.T) {
	dir := t.TempDir()
	db, dataset := buildTestIndex(t, dir, "a.json")

	// Same contents, so only the path differs
	other := filepath.Join(dir, "b.json")
	data, err := os.ReadFile(dataset)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, data, 0644); err != nil {
		t.Fatal(err)
	}

	err = checkIndexCurrent(db, other)
	if !errors.Is(err, errIndexOtherSource) {
		t.Errorf("checkIndexCurrent(other dataset) error = %v, want errIndexOtherSource", err)
	}
}

func TestCheckIndexCurrent_Modified(t *testing.T) {
	dir := t.TempDir()
	db, dataset := buildTestIndex(t, dir, "a.json")

	if err := os.WriteFile(dataset, []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := checkIndexCurrent(db, dataset); !errors.Is(err, errIndexStale) {
		t.Errorf("checkIndexCurrent(modified) error = %v, want errIndexStale", err)
	}
}

func TestCheckIndexCurrent_MissingDataset(t *testing.T) {
	dir := t.TempDir()
	db, dataset := buildTestIndex(t, dir, "a.json")

	if err := os.Remove(dataset); err != nil {
		t.Fatal(err)
	}
	err := checkIndexCurrent(db, dataset)
	if err == nil || errors.Is(err, errIndexStale) || errors.Is(err, errIndexOtherSource) {
		t.Errorf("checkIndexCurrent(missing dataset) error = %v, want read error", err)
	}
}

func TestCheckIndexCurrent_NeverBuilt(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.OpenDB(filepath.Join(dir, "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := checkIndexCurrent(db, filepath.Join(dir, "a.json")); !errors.Is(err, errIndexStale) {
		t.Errorf("checkIndexCurrent(never built) error = %v, want errIndexStale", err)
	}
}
