package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

// KV is the durable key-value medium the bridge mirrors store slices into.
// Get reports ok=false when the key is absent.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileKV keeps one file per key under a directory. It is the local-storage
// substitute for a single-user process: synchronous, no locking beyond what
// the single-writer store already guarantees.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	const op = "persist.NewFileKV"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FileKV{dir: dir}, nil
}

func (kv *FileKV) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}

func (kv *FileKV) Get(key string) ([]byte, bool, error) {
	const op = "persist.FileKV.Get"

	data, err := os.ReadFile(kv.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return data, true, nil
}

// Set writes through a temp file and renames it over the target so a crash
// mid-write never leaves a half-written value behind.
func (kv *FileKV) Set(key string, value []byte) error {
	const op = "persist.FileKV.Set"

	tmp := kv.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, kv.path(key)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (kv *FileKV) Delete(key string) error {
	const op = "persist.FileKV.Delete"

	err := os.Remove(kv.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
