package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	objectsDir  = "objects"
	metadataDir = "metadata_badger"
)

// LocalStore implements Store on the local filesystem with badger metadata
type LocalStore struct {
	root    string
	baseURL string
	db      *badger.DB
	mu      sync.RWMutex
}

// NewLocalStore opens (or creates) a store rooted at root. Objects get
// baseURL + "/" + path as their URL, or a file:// URL when baseURL is empty.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, objectsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(root, metadataDir))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata database: %w", err)
	}

	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		db:      db,
	}, nil
}

// CleanPath normalises an object path and rejects anything that would
// escape the store root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}

// URL returns the public URL for an object path
func (s *LocalStore) URL(objectPath string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + objectPath
	}
	return "file://" + filepath.ToSlash(s.filePath(objectPath))
}

func (s *LocalStore) filePath(objectPath string) string {
	return filepath.Join(s.root, objectsDir, filepath.FromSlash(objectPath))
}

// Put writes data at path, replacing any existing object
func (s *LocalStore) Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectPath, err := CleanPath(objectPath)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.filePath(objectPath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(filePath), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	sum := sha256.Sum256(data)
	info := &ObjectInfo{
		Path:        objectPath,
		URL:         s.URL(objectPath),
		Size:        int64(len(data)),
		ContentType: contentType,
		SHA256:      hex.EncodeToString(sum[:]),
		UploadedAt:  time.Now().UTC(),
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		value, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		return txn.Set([]byte(objectPath), value)
	})
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Get returns the object bytes and metadata
func (s *LocalStore) Get(ctx context.Context, objectPath string) ([]byte, *ObjectInfo, error) {
	info, err := s.Stat(ctx, objectPath)
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Clean(s.filePath(info.Path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, info.Path)
		}
		return nil, nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, info, nil
}

// Stat returns object metadata
func (s *LocalStore) Stat(ctx context.Context, objectPath string) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objectPath, err := CleanPath(objectPath)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var info ObjectInfo
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(objectPath))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, objectPath)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objectPath, err := CleanPath(objectPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Clean(s.filePath(objectPath))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(objectPath))
	})
}

// List returns metadata for every object whose path starts with prefix
func (s *LocalStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []ObjectInfo
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var info ObjectInfo
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &info)
			}); err != nil {
				return err
			}
			objects = append(objects, info)
		}
		return nil
	})
	return objects, err
}

// Close closes the metadata database
func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
