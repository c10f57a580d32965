package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the document in a single JSON file
type FileStore struct {
	path string
}

// NewFileStore returns a store for the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Init creates the parent directory and an empty document if none exists yet
func (s *FileStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(s.path, EmptyDocument, 0o644); err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrUnavailable, s.path, err)
		}
	} else if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, s.path, err)
	}
	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over the document,
// so readers never see a half written file.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}

func (s *FileStore) Driver() string {
	return "file"
}
