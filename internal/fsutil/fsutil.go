// Package fsutil provides the file operations used to rewrite notebooks in place.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultPerm is used when the target file does not exist yet.
const DefaultPerm fs.FileMode = 0o644

// IsFile reports whether path exists and is not a directory.
// A missing path is not an error.
func IsFile(fsys afero.Fs, path string) (bool, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil || !exists {
		return false, err
	}
	dir, err := afero.IsDir(fsys, path)
	if err != nil {
		return false, err
	}
	return !dir, nil
}

// Exists reports whether path exists.
func Exists(fsys afero.Fs, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// ReadFile reads the whole file at path.
func ReadFile(fsys afero.Fs, path string) ([]byte, error) {
	return afero.ReadFile(fsys, path)
}

// WriteFileAtomic replaces path with data.
//
// Data goes to a temporary file next to path which is then renamed over it,
// so readers see either the old or the new content. The existing file's
// permission bits are kept.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte) (err error) {
	perm := DefaultPerm
	if info, statErr := fsys.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(fsys, dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = fsys.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = fsys.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
