package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileHandler(t *testing.T) {
	fh := NewFileHandler("test_uploads", 1024)
	if fh == nil {
		t.Fatal("Expected non-nil FileHandler")
	}

	if fh.uploadsDir != "test_uploads" {
		t.Errorf("Expected uploadsDir 'test_uploads', got '%s'", fh.uploadsDir)
	}
}

func TestSaveUploadedFile(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "uploads")
	fh := NewFileHandler(tmpDir, 0)

	path, err := fh.SaveUploadedFile("../../etc/My CV.PDF", strings.NewReader("Test CV content"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	if filepath.Dir(path) != tmpDir {
		t.Errorf("Expected file inside %s, got %s", tmpDir, path)
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("Expected .pdf extension, got %s", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "Test CV content" {
		t.Errorf("Expected content 'Test CV content', got '%s'", string(data))
	}
}

func TestSaveUploadedFileUniqueNames(t *testing.T) {
	fh := NewFileHandler(t.TempDir(), 0)

	first, err := fh.SaveUploadedFile("cv.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}
	second, err := fh.SaveUploadedFile("cv.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}
	if first == second {
		t.Errorf("Expected distinct paths for concurrent uploads, both were %s", first)
	}
}

func TestSaveUploadedFileTooLarge(t *testing.T) {
	tmpDir := t.TempDir()
	fh := NewFileHandler(tmpDir, 4)

	_, err := fh.SaveUploadedFile("cv.pdf", strings.NewReader("12345"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Expected ErrTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 0 {
		t.Errorf("Expected oversized upload to be removed, found %d files", len(entries))
	}
}

func TestRemove(t *testing.T) {
	fh := NewFileHandler(t.TempDir(), 0)

	path, err := fh.SaveUploadedFile("cv.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}
	if err := fh.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected file to be gone, stat returned %v", err)
	}
	if err := fh.Remove(path); err != nil {
		t.Errorf("Expected removing a missing file to succeed, got %v", err)
	}
}
