package storage

import (
	"context"
	"io"
)

// Storage is the interface object-storage backends implement.
// Listing photos and client folder files both go through it.
type Storage interface {
	// Put stores an object under the given key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves an object by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by key. Returns nil if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for an object key
	GetURL(key string) string
}

// FileInfo describes a stored object
type FileInfo struct {
	Key  string
	Size int64
	URL  string
}

// Config holds settings shared by S3-compatible backends
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}
