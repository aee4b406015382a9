package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned by Discover when the root does not exist.
	ErrNotFound = errors.Base("path does not exist")
	// ErrInvalidPath is returned by Discover when the root is neither a file nor a directory.
	ErrInvalidPath = errors.Base("path is not a file or directory")
)

// Discover lists the files under root that pass the extension filter and are
// not excluded. A nil excludes slice means DefaultExcludes; an empty non-nil
// slice disables exclusion. Excluded directories are not descended into.
// When root is a regular file it is returned alone if its extension passes.
// Paths are joined onto root and sorted.
func Discover(root string, exts []string, excludes []string) ([]string, error) {
	if excludes == nil {
		excludes = DefaultExcludes
	}
	extSet := normalizeExts(exts)

	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, errors.WithStack(err)
	}
	if st.Mode().IsRegular() {
		if extAllowed(root, extSet) {
			return []string{root}, nil
		}
		return nil, nil
	}
	if !st.IsDir() {
		return nil, errors.Errorf("%w: %s", ErrInvalidPath, root)
	}

	var out []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable directories are skipped, not fatal
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if excluded(rel, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			// symlinked files count, symlinked directories are not followed
			if d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			if fi, err := os.Stat(p); err != nil || !fi.Mode().IsRegular() {
				return nil
			}
		}
		if extAllowed(d.Name(), extSet) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sort.Strings(out)
	return out, nil
}
