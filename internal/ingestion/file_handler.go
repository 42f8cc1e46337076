package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileHandler stores uploaded resumes on local disk for the length of one request
type FileHandler struct {
	uploadsDir string
	maxBytes   int64
}

// NewFileHandler creates a new file handler. maxBytes <= 0 disables the size limit.
func NewFileHandler(uploadsDir string, maxBytes int64) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
		maxBytes:   maxBytes,
	}
}

// SaveUploadedFile writes content to a uniquely named file in the uploads
// directory and returns its path. The original filename only contributes its extension.
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	filePath := filepath.Join(fh.uploadsDir, uuid.NewString()+ext)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	src := content
	if fh.maxBytes > 0 {
		src = io.LimitReader(content, fh.maxBytes+1)
	}

	n, err := io.Copy(file, src)
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if fh.maxBytes > 0 && n > fh.maxBytes {
		os.Remove(filePath)
		return "", ErrTooLarge
	}

	return filePath, nil
}

// Remove deletes a file previously returned by SaveUploadedFile.
// A missing file is not an error.
func (fh *FileHandler) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}
