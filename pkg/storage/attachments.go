package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes an attachment file as it will be recorded in the store.
type FileInfo struct {
	Name string
	Path string
	Type string
}

// Describe returns the recordable info for a file linked in place. The file
// is not required to exist; existence is only checked at open time.
func Describe(path string) (FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return FileInfo{}, fmt.Errorf("file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("resolve file path: %w", err)
	}
	return FileInfo{
		Name: filepath.Base(abs),
		Path: abs,
		Type: strings.TrimPrefix(filepath.Ext(abs), "."),
	}, nil
}

// CopyToCaseFolder copies the source file into a per-case folder under the
// destination root and returns the info pointing at the copy. The copy keeps
// the original base name; an existing file of the same name is overwritten.
func CopyToCaseFolder(src string, caseID int64, destRoot string) (FileInfo, error) {
	info, err := Describe(src)
	if err != nil {
		return FileInfo{}, err
	}
	if destRoot == "" {
		return FileInfo{}, fmt.Errorf("attachments destination is not configured")
	}

	caseDir := filepath.Join(destRoot, fmt.Sprintf("case_%d", caseID))
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		return FileInfo{}, fmt.Errorf("create case folder: %w", err)
	}

	dst := filepath.Join(caseDir, info.Name)
	if err := copyFile(info.Path, dst); err != nil {
		return FileInfo{}, fmt.Errorf("copy attachment: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = dst
	}
	info.Path = abs
	return info, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
