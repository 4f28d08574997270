package receipt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps rendered receipts in the public directory. Writes overwrite;
// concurrent writes of the same receipt race and the last writer wins.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("receipt: public dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("receipt: create public dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the public directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// FileName is the deterministic receipt file name for a transaction id.
func FileName(txID string) string {
	return fmt.Sprintf("receipt_%s.pdf", txID)
}

// ValidID reports whether txID can be embedded in a file name without escaping the directory.
func ValidID(txID string) bool {
	if txID == "" || txID == "." || txID == ".." {
		return false
	}
	return !strings.ContainsAny(txID, "/\\\x00")
}

// Write stores data under name.
func (s *FileStore) Write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("receipt: write %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name has been written.
func (s *FileStore) Exists(name string) (bool, error) {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
