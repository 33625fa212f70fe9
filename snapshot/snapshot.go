// Package snapshot saves object graphs to disk and loads them back, so an
// expensive ingestion can be cached between runs.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes v to path with encoding/gob. The file is written to a
// temporary sibling first and renamed into place.
func Save[T any](path string, v T) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a value written by Save.
func Load[T any](path string) (T, error) {
	var v T
	f, err := os.Open(path)
	if err != nil {
		return v, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&v); err != nil {
		return v, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return v, nil
}
