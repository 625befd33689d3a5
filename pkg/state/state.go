package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the canonical runtime folder layout under the data path.
type Paths struct {
	Store  string
	Images string
	Audit  string
	Tmp    string
}

// PathsVar holds the layout resolved by EnsureStateDirs for global use.
var PathsVar Paths

// EnsureStateDirs ensures the canonical runtime folder layout exists under
// the provided data path. It verifies paths are not symlinks, have
// restrictive permissions, and are writable by the process.
func EnsureStateDirs(dataPath string) error {
	p := Paths{
		Store:  filepath.Join(dataPath, "store"),
		Images: filepath.Join(dataPath, "images"),
		Audit:  filepath.Join(dataPath, "state", "audit"),
		Tmp:    filepath.Join(dataPath, "state", "tmp"),
	}

	for _, dir := range []string{p.Store, p.Images, p.Audit, p.Tmp} {
		// ensure parent exists
		if err := os.MkdirAll(filepath.Dir(dir), 0o700); err != nil {
			return fmt.Errorf("cannot create parent for %s: %w", dir, err)
		}

		// if path exists, reject symlinks and non-directories
		if fi, err := os.Lstat(dir); err == nil {
			if fi.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink: %s", dir)
			}
			if !fi.IsDir() {
				return fmt.Errorf("path exists and is not a directory: %s", dir)
			}
			if fi.Mode().Perm()&0o022 != 0 {
				return fmt.Errorf("path has permissive mode (group/other write): %s", dir)
			}
		}

		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("cannot create path %s: %w", dir, err)
		}

		// double-check no symlink after creation
		if fi2, err := os.Lstat(dir); err == nil {
			if fi2.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink after creation: %s", dir)
			}
		}

		// writability check: create and remove a temp file
		tmp, err := os.CreateTemp(dir, ".validate-*")
		if err != nil {
			return fmt.Errorf("path not writable: %s: %w", dir, err)
		}
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	PathsVar = p
	return nil
}
