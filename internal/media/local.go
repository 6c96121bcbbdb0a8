package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes images under a directory served at baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if dir == "" {
		return nil, errors.New("media directory is empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	return &LocalStorage{dir: dir, baseURL: baseURL}, nil
}

// Dir is the root directory, for serving files statically.
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return joinURL(s.baseURL, key), nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps key inside dir, rejecting keys that would escape it.
func (s *LocalStorage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
