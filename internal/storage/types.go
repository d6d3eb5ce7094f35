package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no object exists at a path
var ErrNotFound = errors.New("object not found")

// ErrInvalidPath is returned for empty, absolute or escaping object paths
var ErrInvalidPath = errors.New("invalid object path")

// Store is the object storage contract compressed images are published to
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, path string) ([]byte, *ObjectInfo, error)
	Delete(ctx context.Context, path string) error
	Stat(ctx context.Context, path string) (*ObjectInfo, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Close() error
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	SHA256      string    `json:"sha256"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
