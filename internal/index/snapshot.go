package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// snapshot is the on-disk form of a flat index.
type snapshot struct {
	Dimension int         `json:"dimension"`
	Vectors   [][]float32 `json:"vectors"`
	Removed   []int       `json:"removed,omitempty"`
}

// Save serializes the full index to path. The snapshot is written to a
// temporary file and renamed into place, so a crash mid-write leaves the
// previous snapshot intact.
func (f *Flat) Save(path string) error {
	removed := make([]int, 0, len(f.removed))
	for slot := range f.removed {
		removed = append(removed, slot)
	}

	data, err := json.Marshal(snapshot{
		Dimension: f.dimension,
		Vectors:   f.vectors,
		Removed:   removed,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal index snapshot: %w", err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write index snapshot %s: %w", path, err)
	}
	return nil
}

// LoadFlat reads an index snapshot from path. A missing file yields an empty
// index of the given dimension, not an error.
func LoadFlat(path string, dimension int) (*Flat, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewFlat(dimension)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index snapshot %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse index snapshot %s: %w", path, err)
	}
	if snap.Dimension != dimension {
		return nil, fmt.Errorf("index snapshot %s has dimension %d, configured dimension is %d", path, snap.Dimension, dimension)
	}

	flat, err := NewFlat(dimension)
	if err != nil {
		return nil, err
	}
	for slot, vector := range snap.Vectors {
		if len(vector) != dimension {
			return nil, fmt.Errorf("index snapshot %s: vector at slot %d has dimension %d, want %d", path, slot, len(vector), dimension)
		}
		if _, err := flat.Add(vector); err != nil {
			return nil, err
		}
	}
	for _, slot := range snap.Removed {
		if err := flat.Remove(slot); err != nil {
			return nil, fmt.Errorf("index snapshot %s: %w", path, err)
		}
	}
	return flat, nil
}

// writeFileAtomic writes data to a temporary file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
