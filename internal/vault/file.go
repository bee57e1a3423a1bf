package vault

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileBackend stores one file per key under a directory. Files are written
// with 0600 and replaced atomically via rename.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "failed to create vault directory %s", dir)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *FileBackend) Get(key string) ([]byte, error) {
	raw, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read vault file for %s", key)
	}
	return raw, nil
}

func (b *FileBackend) Put(key string, value []byte) error {
	tmp := b.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write vault file for %s", key)
	}
	if err := os.Rename(tmp, b.path(key)); err != nil {
		return errors.Wrapf(err, "failed to replace vault file for %s", key)
	}
	return nil
}

func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return errors.Wrapf(err, "failed to delete vault file for %s", key)
}
