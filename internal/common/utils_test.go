package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateUUID(t *testing.T) {
	// Generate multiple UUIDs
	uuid1 := GenerateUUID()
	uuid2 := GenerateUUID()
	
	// Should not be empty
	if uuid1 == "" {
		t.Error("Expected non-empty UUID")
	}
	
	if uuid2 == "" {
		t.Error("Expected non-empty UUID")
	}
	
	// Should be different
	if uuid1 == uuid2 {
		t.Error("Expected different UUIDs")
	}
	
	// Should be valid UUID format
	_, err := uuid.Parse(uuid1)
	if err != nil {
		t.Errorf("Generated UUID is not valid: %v", err)
	}
	
	_, err = uuid.Parse(uuid2)
	if err != nil {
		t.Errorf("Generated UUID is not valid: %v", err)
	}
}

func TestSavedFilename(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected string
	}{
		{"photo.jpg", 1, "photo_compressed.jpg"},
		{"photo.jpg", 2, "photo_compressed_2.jpg"},
		{"hero.webp", 12, "hero_compressed_12.webp"},
		{"noext", 1, "noext_compressed"},
	}

	for _, tt := range tests {
		if got := SavedFilename(tt.name, tt.n); got != tt.expected {
			t.Errorf("SavedFilename(%q, %d) = %q, expected %q", tt.name, tt.n, got, tt.expected)
		}
	}
}

func TestSaveUnique(t *testing.T) {
	tempDir := t.TempDir()

	// The original sits next to where the copy is saved
	original := filepath.Join(tempDir, "photo.jpg")
	if err := os.WriteFile(original, []byte("original"), 0644); err != nil {
		t.Fatalf("Failed to create original: %v", err)
	}

	first, err := SaveUnique(tempDir, "photo.jpg", []byte("first"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first != filepath.Join(tempDir, "photo_compressed.jpg") {
		t.Errorf("Unexpected path %s", first)
	}

	second, err := SaveUnique(tempDir, "photo.jpg", []byte("second"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if second != filepath.Join(tempDir, "photo_compressed_2.jpg") {
		t.Errorf("Unexpected path %s", second)
	}

	for path, content := range map[string]string{original: "original", first: "first", second: "second"} {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", path, err)
		}
		if string(got) != content {
			t.Errorf("Expected %s to hold %q, got %q", path, content, got)
		}
	}
}

func TestSaveUnique_CreateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir", "nested")

	path, err := SaveUnique(dir, "a.jpg", []byte("data"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Expected file in %s, got %s", dir, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Saved file missing: %v", err)
	}
}

func TestSaveUnique_DirIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if _, err := SaveUnique(blocker, "a.jpg", []byte("data")); err == nil {
		t.Error("Expected error when the target directory is a file")
	}
}

func TestCleanupOldTempFiles(t *testing.T) {
	workingDir := t.TempDir()

	oldDir := filepath.Join(workingDir, "old-job")
	freshDir := filepath.Join(workingDir, "fresh-job")
	for _, dir := range []string{oldDir, freshDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	// Loose files in the working dir are left alone
	if err := os.WriteFile(filepath.Join(workingDir, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldDir, past, past); err != nil {
		t.Fatalf("Failed to age directory: %v", err)
	}

	removed := CleanupOldTempFiles(workingDir, TempFileRetention)
	if removed != 1 {
		t.Errorf("Expected 1 directory removed, got %d", removed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("Expected old directory to be removed")
	}
	if _, err := os.Stat(freshDir); err != nil {
		t.Error("Expected fresh directory to remain")
	}
	if _, err := os.Stat(filepath.Join(workingDir, "keep.txt")); err != nil {
		t.Error("Expected loose file to remain")
	}
}

func TestCleanupOldTempFiles_MissingDir(t *testing.T) {
	if removed := CleanupOldTempFiles(filepath.Join(t.TempDir(), "missing"), time.Hour); removed != 0 {
		t.Errorf("Expected 0 removed for a missing dir, got %d", removed)
	}
}

func TestCompressionError(t *testing.T) {
	err := NewCompressionError("processing", "/tmp/a.png", ErrFileNotFound)

	expected := "compression processing failed for file /tmp/a.png: file not found"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrFileNotFound) {
		t.Error("Expected CompressionError to unwrap to ErrFileNotFound")
	}

	noFile := NewCompressionError("validation", "", ErrNoFilesProvided)
	if noFile.Error() != "compression validation failed: no files provided for compression" {
		t.Errorf("Unexpected message %q", noFile.Error())
	}
}
