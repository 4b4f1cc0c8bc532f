package fsutil

import (
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
)

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return crerr.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return crerr.Wrap(err, "rename temp file")
	}
	committed = true
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
