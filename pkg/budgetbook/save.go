package budgetbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SaveFile writes f to path through a temporary file in the same directory,
// so a failed save leaves any existing file at path untouched.
func SaveFile(f *excelize.File, path string) error {
	// WriteTo picks the content type (xlsx or xlsm) from f.Path.
	f.Path = path
	return writeAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}

	if err := write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
