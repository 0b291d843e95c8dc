package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidKey    = errors.New("invalid collection or id")
)

// FileStore persists JSON-serializable records as one file per record,
// laid out as <baseDir>/<collection>/<id>.json.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the base directory if needed and returns a store rooted there
func NewFileStore(baseDir string) (*FileStore, error) {
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory %s: %w", baseDir, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", absDir, err)
	}
	return &FileStore{baseDir: absDir}, nil
}

// Create writes a new record. It fails with ErrAlreadyExists if a record
// with the same collection and id is already stored.
func (s *FileStore) Create(ctx context.Context, collection, id string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.recordPath(collection, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create collection directory: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s/%s: %w", collection, id, err)
	}

	// O_EXCL makes creation race-safe against a concurrent create of the same id
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create record file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Read loads the record into v. ErrNotFound if no such record is stored.
func (s *FileStore) Read(ctx context.Context, collection, id string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.recordPath(collection, id)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read record %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update overwrites an existing record. ErrNotFound if it was never created.
func (s *FileStore) Update(ctx context.Context, collection, id string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.recordPath(collection, id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to stat record %s/%s: %w", collection, id, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s/%s: %w", collection, id, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a record. ErrNotFound if it was never created.
func (s *FileStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.recordPath(collection, id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping reports whether the base directory is still present and usable
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.baseDir)
	}
	return nil
}

// recordPath builds the record file path, rejecting keys that could
// escape the data directory.
func (s *FileStore) recordPath(collection, id string) (string, error) {
	if !validKey(collection) || !validKey(id) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.baseDir, collection, id+".json"), nil
}

func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, "/\\")
}
