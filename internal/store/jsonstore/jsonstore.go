package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// JSON-backed file storage. Single file, human-readable, portable.
// No locking; one client process owns its files.

// Load decodes the file at path into v. It reports false when the file
// does not exist, leaving v untouched.
func Load(fs afero.Fs, path string, v any) (bool, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("json unmarshal: %w", err)
	}
	return true, nil
}

// Save writes v as indented JSON with perm, creating the parent directory
// owner-only.
func Save(fs afero.Fs, path string, v any, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := afero.WriteFile(fs, path, b, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Remove deletes path; a missing file is not an error.
func Remove(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
