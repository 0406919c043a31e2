package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	info, err := Describe("/data/photos/meter_123.JPG")
	require.NoError(t, err)
	assert.Equal(t, "meter_123.JPG", info.Name)
	assert.Equal(t, "/data/photos/meter_123.JPG", info.Path)
	assert.Equal(t, "JPG", info.Type)
}

func TestDescribeNoExtension(t *testing.T) {
	info, err := Describe("/data/readme")
	require.NoError(t, err)
	assert.Equal(t, "readme", info.Name)
	assert.Empty(t, info.Type)
}

func TestDescribeEmptyPath(t *testing.T) {
	_, err := Describe("   ")
	require.Error(t, err)
}

func TestCopyToCaseFolder(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "invoice.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf bytes"), 0o644))

	destRoot := t.TempDir()
	info, err := CopyToCaseFolder(src, 12, destRoot)
	require.NoError(t, err)

	expected := filepath.Join(destRoot, "case_12", "invoice.pdf")
	assert.Equal(t, expected, info.Path)
	assert.Equal(t, "invoice.pdf", info.Name)

	copied, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), copied)
}

func TestCopyToCaseFolderMissingDestination(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "invoice.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf bytes"), 0o644))

	_, err := CopyToCaseFolder(src, 12, "")
	require.Error(t, err)
}

func TestCopyToCaseFolderMissingSource(t *testing.T) {
	_, err := CopyToCaseFolder(filepath.Join(t.TempDir(), "absent.pdf"), 12, t.TempDir())
	require.Error(t, err)
}
