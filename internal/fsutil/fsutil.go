// Package fsutil holds the recursive filesystem walks the cache relies on.
//
// Both walks work on a billy.Filesystem and use Lstat, so symbolic links are
// treated as leaves: they are deleted or counted as empty, never followed.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-git/go-billy/v5"

	"github.com/lucasew/lrudirs/internal/errutil"
)

// RemoveAll deletes path. A directory has its children deleted first and is then
// removed itself only when deleteSelf is set, so RemoveAll(fs, ".", false) empties
// the filesystem root. A missing path is already deleted and is not an error.
//
// Every child is attempted even when some fail; failures are joined.
func RemoveAll(fsys billy.Filesystem, path string, deleteSelf bool) error {
	info, err := fsys.Lstat(path)
	if err != nil {
		return errutil.IgnoreNotExist(err)
	}

	if !info.IsDir() {
		if err := errutil.IgnoreNotExist(fsys.Remove(path)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return nil
	}

	children, err := fsys.ReadDir(path)
	if err != nil {
		if err := errutil.IgnoreNotExist(err); err != nil {
			return fmt.Errorf("failed to list %s: %w", path, err)
		}
		return nil
	}

	var errs []error
	for _, child := range children {
		if err := RemoveAll(fsys, fsys.Join(path, child.Name()), true); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if !deleteSelf {
		return nil
	}
	if err := errutil.IgnoreNotExist(fsys.Remove(path)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Size returns the number of bytes stored in regular files under path: 0 when it
// is missing, the length of a regular file, otherwise the sum over its children.
// Symbolic links and other special files count as 0. A directory that cannot be
// listed counts as empty.
func Size(fsys billy.Filesystem, path string) int64 {
	info, err := fsys.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return regularSize(info)
	}

	children, err := fsys.ReadDir(path)
	if err != nil {
		errutil.LogMsg(errutil.IgnoreNotExist(err), "Failed to list directory while sizing", "path", path)
		return 0
	}

	var total int64
	for _, child := range children {
		if child.IsDir() {
			total += Size(fsys, fsys.Join(path, child.Name()))
		} else {
			total += regularSize(child)
		}
	}
	return total
}

func regularSize(info fs.FileInfo) int64 {
	if !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}
