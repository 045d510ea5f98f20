package budgetbook

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsm")

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "budget"))
	require.NoError(t, SaveFile(f, path))

	saved, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer saved.Close()
	value, err := saved.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "budget", value)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	defer f.Close()

	assert.Error(t, SaveFile(f, filepath.Join(dir, "summary.txt")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteAtomicKeepsOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.xlsm")
	original := []byte("previous workbook")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	err := writeAtomic(path, func(w io.Writer) error {
		if _, err := w.Write([]byte("half")); err != nil {
			return err
		}
		return errors.New("disk full")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsm")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
