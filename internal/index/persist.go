package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// snapshot is the on-disk shape of the index blob.
type snapshot struct {
	Chunks  []domain.Chunk
	Vectors [][]float32
}

func readSnapshot(path string) (snapshot, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// writeSnapshot writes the blob to a temp file and renames it into place so
// a crash mid-write never leaves a truncated index behind.
func writeSnapshot(path string, snap snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
