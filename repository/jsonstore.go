package repository

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const snapshotVersion = 1

// JSONStore keeps the whole record set in a single JSON document.
// Writes are atomic: the snapshot goes to a temp file first and then
// replaces the real one with a rename, so a crash mid-write never leaves a
// corrupt store behind.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the snapshot from disk. A missing file is initialized to the
// empty snapshot and persisted right away, so the default is durable rather
// than transient.
func (s *JSONStore) Load() (Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		snap := EmptySnapshot()
		if saveErr := s.Save(snap); saveErr != nil {
			return Snapshot{}, saveErr
		}
		return snap, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()

	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, err
	}
	if snap.NextNumber < 1 {
		snap.NextNumber = 1
	}
	return snap, nil
}

func (s *JSONStore) Save(snap Snapshot) error {
	snap.Meta = Meta{
		Storage:   "json_snapshot",
		Version:   snapshotVersion,
		Timestamp: time.Now(),
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	// Indented output so the data file stays human-readable.
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
