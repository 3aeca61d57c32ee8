package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileWriter stores export downloads in one directory
type FileWriter struct {
	outputDir string
}

// New creates a new FileWriter, creating outputDir if needed. The directory
// is stored as an absolute path.
func New(outputDir string) (*FileWriter, error) {
	outputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{outputDir: outputDir}, nil
}

// Dir returns the output directory
func (w *FileWriter) Dir() string { return w.outputDir }

// WriteExport copies r into a file named after name and returns its path
func (w *FileWriter) WriteExport(name string, r io.Reader) (string, error) {
	path := filepath.Join(w.outputDir, w.sanitizeFilename(name))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// Rename moves a file already inside the output directory to a sanitized name
func (w *FileWriter) Rename(from, name string) (string, error) {
	to := filepath.Join(w.outputDir, w.sanitizeFilename(name))
	if err := os.Rename(filepath.Join(w.outputDir, filepath.Base(from)), to); err != nil {
		return "", fmt.Errorf("failed to rename download: %w", err)
	}
	return to, nil
}

// sanitizeFilename keeps only the base name and replaces unsafe characters
func (w *FileWriter) sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	for _, char := range unsafe {
		name = strings.ReplaceAll(name, char, "_")
	}
	if name == "" || name == "." || name == ".." {
		name = "export"
	}
	return name
}
