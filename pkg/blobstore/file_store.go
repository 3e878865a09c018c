package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benmeehan/hydrant-survey/pkg/file"
)

// FileStore keeps each blob in its own file below a base directory.
type FileStore struct {
	dir        string
	fileClient file.FileOperations
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, fileClient file.FileOperations) *FileStore {
	return &FileStore{
		dir:        dir,
		fileClient: fileClient,
	}
}

// path maps a key to a file below the base directory, refusing keys that escape it.
func (s *FileStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

// Get reads the blob stored under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := s.fileClient.ReadFileRaw(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Put atomically replaces the blob stored under key.
func (s *FileStore) Put(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.fileClient.WriteFileRaw(p, data); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return s.fileClient.RemoveFile(p)
}
