package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore provides atomic file-based key-value storage with secure permissions.
// All entries live in a single JSON object; writes use temp file + rename for
// crash safety. A missing file reads as an empty store.
type FileStore struct {
	filePath string
}

// Compile-time check to ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for the given path, creating parent directories
// with 0700 permissions if they don't exist.
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &FileStore{
		filePath: filePath,
	}, nil
}

// Get returns the stored values for the given keys. A missing or empty file
// yields an empty result. Returns an error if the file has insecure permissions
// or holds malformed JSON.
func (f *FileStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := f.load()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return entries, nil
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := entries[key]; ok {
			values[key] = v
		}
	}
	return values, nil
}

// Set merges the given values into the store and atomically rewrites the file
// using temp file + rename for crash safety. Sets file permissions to 0600
// (owner read/write only).
func (f *FileStore) Set(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := f.load()
	if err != nil {
		return err
	}
	for key, value := range values {
		entries[key] = value
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	// Create secure temp file in same directory for atomic rename
	dir := filepath.Dir(f.filePath)
	tempFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()
	// Cleanup deferred for all exit paths
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(data); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	// Atomic rename to final location
	if err := os.Rename(tempName, f.filePath); err != nil {
		return err
	}

	// Set secure file permissions (0600 = rw-------)
	if err := os.Chmod(f.filePath, 0600); err != nil {
		return err
	}

	return nil
}

// load reads and decodes the backing file. A missing file is an empty store,
// not an error. Checks file permissions before reading.
func (f *FileStore) load() (map[string]string, error) {
	info, err := os.Stat(f.filePath)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if info.Mode().Perm() != 0600 {
		return nil, fmt.Errorf("insecure permissions on %s: %04o (expected 0600)", f.filePath, info.Mode().Perm())
	}

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt store file %s: %w", f.filePath, err)
	}
	return entries, nil
}
