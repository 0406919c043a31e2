package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExportDir persists generated report files under a base directory.
type ExportDir struct {
	baseDir string
}

// NewExportDir ensures the base directory exists and returns a handle.
func NewExportDir(baseDir string) (*ExportDir, error) {
	if baseDir == "" {
		baseDir = "./reports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &ExportDir{baseDir: baseDir}, nil
}

// Save writes the given bytes to the provided file name under the base dir.
func (s *ExportDir) Save(filename string, data []byte) (string, error) {
	path := s.Path(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return filename, nil
}

// Path exposes the absolute location of a stored report.
func (s *ExportDir) Path(filename string) string {
	return filepath.Join(s.baseDir, filename)
}
