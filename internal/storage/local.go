// Package storage keeps uploaded files.
package storage

import (
	"context"       // Storage context
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"io"            // Streaming copies
	"os"            // Filesystem access
	"path/filepath" // Path joining
	"strings"       // URL prefixes
)

// ErrInvalidPath is returned for paths that would escape the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// LocalStorage stores files under a directory served at a URL prefix
type LocalStorage struct {
	basePath string // Root directory on disk
	baseURL  string // Public URL prefix, e.g. /uploads
}

// NewLocalStorage creates the root directory if needed
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./uploads"
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// BasePath returns the root directory
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// Save writes reader to path. A partially written file is removed on failure.
func (s *LocalStorage) Save(ctx context.Context, path string, reader io.Reader) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return file.Close()
}

// Delete removes a file; a missing file is not an error
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL of a stored path
func (s *LocalStorage) URL(path string) string {
	return s.baseURL + "/" + filepath.ToSlash(path)
}

// PathOf maps a public URL produced by URL back to its stored path
func (s *LocalStorage) PathOf(url string) (string, bool) {
	path, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || path == "" {
		return "", false
	}
	if _, err := s.resolve(path); err != nil {
		return "", false
	}
	return path, true
}

func (s *LocalStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.basePath, clean), nil
}
