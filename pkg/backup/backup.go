package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotPrefix = "customer_issues_backup_"

// Rotator snapshots the store file into a backup directory and keeps only
// the newest fixed count of snapshots.
type Rotator struct {
	storePath string
	backupDir string
	keep      int
}

// NewRotator ensures the backup directory exists and returns a rotator.
func NewRotator(storePath, backupDir string, keep int) (*Rotator, error) {
	if keep <= 0 {
		keep = 5
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	return &Rotator{storePath: storePath, backupDir: backupDir, keep: keep}, nil
}

// Rotate copies the store file to a timestamped snapshot and prunes older
// snapshots beyond the retention count. A missing store file is not an
// error; first startup has nothing to back up yet.
func (r *Rotator) Rotate() (string, error) {
	if _, err := os.Stat(r.storePath); os.IsNotExist(err) {
		return "", nil
	}

	name := fmt.Sprintf("%s%s.db", snapshotPrefix, time.Now().Format("20060102_150405"))
	dst := filepath.Join(r.backupDir, name)
	if err := copyFile(r.storePath, dst); err != nil {
		return "", fmt.Errorf("snapshot store: %w", err)
	}

	if err := r.prune(); err != nil {
		return name, fmt.Errorf("prune backups: %w", err)
	}
	return name, nil
}

// Snapshots returns the snapshot file names, oldest first.
func (r *Rotator) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(r.backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), snapshotPrefix) {
			continue
		}
		names = append(names, e.Name())
	}
	// Timestamped names sort chronologically.
	sort.Strings(names)
	return names, nil
}

func (r *Rotator) prune() error {
	names, err := r.Snapshots()
	if err != nil {
		return err
	}
	if len(names) <= r.keep {
		return nil
	}
	for _, name := range names[:len(names)-r.keep] {
		if err := os.Remove(filepath.Join(r.backupDir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
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
