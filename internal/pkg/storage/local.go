package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage implements Storage on the local filesystem, used in development
type LocalStorage struct {
	baseDir   string
	publicURL string
}

// NewLocalStorage creates a filesystem-backed storage rooted at baseDir
func NewLocalStorage(baseDir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicURL: publicURL}, nil
}

func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(key))
}

// Put stores a file
func (l *LocalStorage) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	target := l.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create dir: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Get retrieves a file
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes a file. Missing files are not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(l.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a file exists
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetURL returns the public URL for a file
func (l *LocalStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", l.publicURL, key)
}
