package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// DefaultBasePath is used when New receives an empty path.
var DefaultBasePath = filepath.Join(".wayfinder", "stacks")

// ErrInvalidID is returned for container ids that cannot name a file.
var ErrInvalidID = errors.New("invalid container id")

const tmpPrefix = "tmp-"

// Store implements ports.StackStore using the local filesystem.
// It stores one JSON file of recovery records per container.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(containerID string) (string, error) {
	if containerID == "" || strings.ContainsAny(containerID, `/\`) || strings.HasPrefix(containerID, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, containerID)
	}
	return filepath.Join(s.BasePath, containerID+".json"), nil
}

// Save persists the records to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	destPath, err := s.path(containerID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure stack directory: %w", err)
	}

	if records == nil {
		records = []domain.RecoveryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	// 1. Create Temp File on the same filesystem (required for atomic rename)
	tmpFile, err := os.CreateTemp(s.BasePath, tmpPrefix+containerID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	// 2. Write Data
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	// 3. Fsync to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// 4. Close File (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// 5. Rename. Windows refuses to overwrite, so remove the old file first.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing stack file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to stack file: %w", err)
	}
	return nil
}

// Load retrieves the records from a JSON file.
func (s *Store) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	filePath, err := s.path(containerID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrStackNotFound
		}
		return nil, fmt.Errorf("failed to read stack file: %w", err)
	}

	var records []domain.RecoveryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stack file: %w", err)
	}
	return records, nil
}

// Delete removes the stack file. Deleting a missing stack is not an error.
func (s *Store) Delete(ctx context.Context, containerID string) error {
	filePath, err := s.path(containerID)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete stack file: %w", err)
	}
	return nil
}

// List returns the ids of all persisted stacks, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
