package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// SavedFilename returns the name the nth saved copy of name gets.
// The first copy is <base>_compressed<ext>, later ones add _<n>.
func SavedFilename(name string, n int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if n > 1 {
		return fmt.Sprintf("%s_compressed_%d%s", base, n, ext)
	}
	return base + "_compressed" + ext
}

// SaveUnique writes data into dir under the first free SavedFilename of name
// and returns the path written. Existing files are never replaced.
func SaveUnique(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, DefaultFilePermissions); err != nil {
		return "", err
	}

	for n := 1; n <= MaxSaveAttempts; n++ {
		path := filepath.Join(dir, SavedFilename(name, n))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("no free name for %s in %s after %d attempts", name, dir, MaxSaveAttempts)
}

// CleanupOldTempFiles removes per-file work directories older than maxAge.
// It returns the number of directories removed.
func CleanupOldTempFiles(workingDir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(workingDir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(workingDir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed
}
