package collate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ukaji3/budgetbook-go/pkg/budgetbook"
	"github.com/xuri/excelize/v2"
)

// EnsureMaster creates an empty master workbook at path if none exists.
// The new workbook holds a single placeholder sheet.
func EnsureMaster(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	f, err := newMaster()
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := f.SaveAs(path); err != nil {
		return false, fmt.Errorf("create master workbook: %w", err)
	}
	return true, nil
}

func newMaster() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), budgetbook.PlaceholderSheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// BackupName returns the file name a backup of name takes on asOf.
func BackupName(name string, asOf time.Time) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + asOf.Format("2006-01-02") + ext
}

// Backup moves the file at path into dir, tagging its name with the date of
// asOf, and returns the backup path. A missing file is not an error and
// yields an empty path.
func Backup(path, dir string, asOf time.Time) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	target := filepath.Join(dir, BackupName(filepath.Base(path), asOf))
	if err := os.Rename(path, target); err == nil {
		return target, nil
	}

	// Rename fails across filesystems.
	if err := copyFile(path, target); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("remove %s after backup: %w", path, err)
	}
	return target, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
