// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/filmatlas/filmatlas/catalog"
	"github.com/filmatlas/filmatlas/recommend/vectorindex"
)

func testSnapshot(t *testing.T, version int) *Snapshot {
	t.Helper()

	model, err := vectorindex.Fit([]string{
		"action thriller chase action",
		"action drama chase",
		"drama romance thriller",
	}, vectorindex.DefaultConfig())
	if err != nil {
		t.Fatalf("Fit() = %v", err)
	}

	return &Snapshot{
		Version: version,
		BuiltAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Entries: []catalog.Entry{
			{ID: 1, Title: "First", Genre: "Action", Rating: 7.2},
			{ID: 2, Title: "Second", Genre: "Action|Drama", Rating: 6.8},
			{ID: 3, Title: "Third", Genre: "Drama", Rating: 8.0},
		},
		Vectorizer: model.State(),
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	ctx := context.Background()

	want := testSnapshot(t, 1)
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	got, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if got.Version != want.Version || !got.BuiltAt.Equal(want.BuiltAt) {
		t.Errorf("metadata mismatch: got v%d %v, want v%d %v", got.Version, got.BuiltAt, want.Version, want.BuiltAt)
	}
	if !reflect.DeepEqual(got.Entries, want.Entries) {
		t.Errorf("entries mismatch:\ngot  %+v\nwant %+v", got.Entries, want.Entries)
	}

	// The restored vectorizer must answer queries like the original.
	restored, err := vectorindex.FromState(got.Vectorizer)
	if err != nil {
		t.Fatalf("FromState() = %v", err)
	}
	if restored.Rows() != 3 {
		t.Errorf("restored Rows() = %d, want 3", restored.Rows())
	}
	orig, err := vectorindex.FromState(want.Vectorizer)
	if err != nil {
		t.Fatalf("FromState() = %v", err)
	}
	a := restored.Transform("action chase")
	b := orig.Transform("action chase")
	if a.Dot(restored.Row(0)) != b.Dot(orig.Row(0)) {
		t.Error("restored model scores diverge from original")
	}
}

func TestStore_LoadLatest(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	ctx := context.Background()

	for _, v := range []int{1, 3, 2} {
		if err := store.Save(ctx, testSnapshot(t, v)); err != nil {
			t.Fatalf("Save(v%d) = %v", v, err)
		}
	}

	got, err := store.Load(ctx, 0)
	if err != nil {
		t.Fatalf("Load(0) = %v", err)
	}
	if got.Version != 3 {
		t.Errorf("latest version = %d, want 3", got.Version)
	}
}

func TestStore_EmptyStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}

	if _, err := store.Load(context.Background(), 0); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load(0) error = %v, want ErrNoSnapshot", err)
	}
	if _, ok := store.LatestVersion(); ok {
		t.Error("LatestVersion() reports a version in an empty store")
	}
}

func TestStore_RescanOnOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	if err := first.Save(ctx, testSnapshot(t, 2)); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	// A fresh store over the same directory picks up existing snapshots.
	second, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	if v, ok := second.LatestVersion(); !ok || v != 2 {
		t.Errorf("LatestVersion() = %d, %v; want 2, true", v, ok)
	}
}

func TestParseSnapshotFilename(t *testing.T) {
	tests := []struct {
		name    string
		version int
		ok      bool
	}{
		{"index_v1.gob.gz", 1, true},
		{"index_v42.gob.gz", 42, true},
		{"index_v12abc.gob.gz", 0, false},
		{"index_v1.2.gob.gz", 0, false},
		{"index_v-3.gob.gz", 0, false},
		{"index_v0.gob.gz", 0, false},
		{"index_v.gob.gz", 0, false},
		{"index_v3.json", 0, false},
		{"notes.txt", 0, false},
	}
	for _, tt := range tests {
		version, ok := parseSnapshotFilename(tt.name)
		if version != tt.version || ok != tt.ok {
			t.Errorf("parseSnapshotFilename(%q) = %d, %v; want %d, %v",
				tt.name, version, ok, tt.version, tt.ok)
		}
	}
}

func TestStore_ScanIgnoresMalformedFilenames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index_v12abc.gob.gz"), []byte("junk"), 0o640); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	if v, ok := store.LatestVersion(); ok {
		t.Errorf("LatestVersion() = %d, true; want none", v)
	}
}

func TestStore_CorruptionDetected(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	if err := store.Save(ctx, testSnapshot(t, 1)); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	// Truncate the snapshot file to corrupt it.
	path := filepath.Join(dir, "index_v1.gob.gz")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)/2], 0o640); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	if _, err := store.Load(ctx, 1); err == nil {
		t.Fatal("Load() succeeded on a corrupt snapshot")
	}
}

func TestStore_MetadataSidecar(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	if err := store.Save(context.Background(), testSnapshot(t, 1)); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "index_v1.json")); err != nil {
		t.Errorf("metadata sidecar missing: %v", err)
	}

	metas, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(metas))
	}
	if metas[0].DocCount != 3 {
		t.Errorf("DocCount = %d, want 3", metas[0].DocCount)
	}
	if metas[0].Checksum == "" {
		t.Error("checksum not recorded")
	}
}

func TestStore_Delete(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	for _, v := range []int{1, 2} {
		if err := store.Save(ctx, testSnapshot(t, v)); err != nil {
			t.Fatalf("Save(v%d) = %v", v, err)
		}
	}

	if err := store.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if v, ok := store.LatestVersion(); !ok || v != 1 {
		t.Errorf("LatestVersion() after delete = %d, %v; want 1, true", v, ok)
	}
	if _, err := store.Load(ctx, 2); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load(2) after delete error = %v, want ErrNoSnapshot", err)
	}
}
