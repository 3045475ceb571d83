// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/filmatlas/filmatlas/catalog"
	"github.com/filmatlas/filmatlas/recommend/vectorindex"
)

// ErrNoSnapshot is returned when the store holds no snapshot to load.
var ErrNoSnapshot = errors.New("storage: no snapshot found")

// Snapshot is one persisted index build: the catalog rows it was built
// from, in index row order, plus the fitted vectorizer state.
type Snapshot struct {
	// Version is the build version the snapshot was taken at.
	Version int

	// BuiltAt is when the index finished building.
	BuiltAt time.Time

	// Entries are the indexed catalog rows in row order.
	Entries []catalog.Entry

	// Vectorizer is the fitted TF-IDF state.
	Vectorizer vectorindex.ModelState
}

// Metadata describes a stored snapshot. It is written as a JSON sidecar
// next to the snapshot file.
type Metadata struct {
	// Version is the snapshot's build version.
	Version int `json:"version"`

	// BuiltAt is when the index finished building.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// DocCount is the number of indexed movies.
	DocCount int `json:"doc_count"`

	// VocabSize is the number of vocabulary terms.
	VocabSize int `json:"vocab_size"`

	// Checksum is the SHA-256 checksum of the uncompressed gob data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed snapshot size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format for snapshot files.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages snapshot persistence in one directory.
type Store struct {
	baseDir string

	mu     sync.RWMutex
	latest int
}

// NewStore creates a snapshot store at the given directory, creating it if
// needed and picking up any snapshots already present.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{baseDir: baseDir}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}
	return s, nil
}

// scan finds the latest snapshot version already on disk.
func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, ok := parseSnapshotFilename(entry.Name())
		if ok && version > s.latest {
			s.latest = version
		}
	}
	return nil
}

// parseSnapshotFilename extracts the version from a name like
// "index_v3.gob.gz".
func parseSnapshotFilename(name string) (version int, ok bool) {
	const prefix, suffix = "index_v", ".gob.gz"
	if len(name) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if name[:len(prefix)] != prefix || name[len(name)-len(suffix):] != suffix {
		return 0, false
	}
	version, err := strconv.Atoi(name[len(prefix) : len(name)-len(suffix)])
	if err != nil || version < 1 {
		return 0, false
	}
	return version, true
}

// Save writes a snapshot. The snapshot's own version names the file;
// saving the same version twice overwrites.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.New("storage: nil snapshot")
	}
	if snap.Version < 1 {
		return fmt.Errorf("storage: invalid snapshot version %d", snap.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta := Metadata{
		Version:   snap.Version,
		BuiltAt:   snap.BuiltAt,
		SavedAt:   time.Now(),
		DocCount:  len(snap.Entries),
		VocabSize: len(snap.Vectorizer.Terms),
		Checksum:  hex.EncodeToString(hash[:]),
		SizeBytes: int64(compressed.Len()),
	}

	f, err := os.Create(s.snapshotPath(snap.Version))
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sf := storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	if err := s.writeSidecar(meta); err != nil {
		return err
	}

	if snap.Version > s.latest {
		s.latest = snap.Version
	}
	return nil
}

// writeSidecar writes the JSON metadata file next to a snapshot.
func (s *Store) writeSidecar(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	path := filepath.Join(s.baseDir, fmt.Sprintf("index_v%d.json", meta.Version))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write metadata sidecar: %w", err)
	}
	return nil
}

// Load reads a snapshot by version. Version 0 loads the latest. The
// checksum is verified before decoding.
func (s *Store) Load(ctx context.Context, version int) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		if s.latest == 0 {
			return nil, ErrNoSnapshot
		}
		version = s.latest
	}

	f, err := os.Open(s.snapshotPath(version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// LatestVersion returns the newest stored snapshot version, or false if
// the store is empty.
func (s *Store) LatestVersion() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest > 0
}

// List returns metadata for all stored snapshots in no particular order.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read storage directory: %w", err)
	}

	var metas []Metadata
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, ok := parseSnapshotFilename(entry.Name())
		if !ok {
			continue
		}

		f, err := os.Open(s.snapshotPath(version))
		if err != nil {
			continue
		}
		var sf storedFile
		decErr := gob.NewDecoder(f).Decode(&sf)
		_ = f.Close()
		if decErr != nil {
			continue
		}
		metas = append(metas, sf.Metadata)
	}
	return metas, nil
}

// Delete removes a snapshot version and its sidecar.
func (s *Store) Delete(ctx context.Context, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(version)); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	// Sidecar may already be gone; not an error.
	_ = os.Remove(filepath.Join(s.baseDir, fmt.Sprintf("index_v%d.json", version)))

	if s.latest == version {
		s.latest = 0
		if err := s.scan(); err != nil {
			return fmt.Errorf("rescan after delete: %w", err)
		}
	}
	return nil
}

func (s *Store) snapshotPath(version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("index_v%d.gob.gz", version))
}
