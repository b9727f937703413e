package dctstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Clean removes the files Load read but the last Save did not
// rewrite: old shards whose group shrank, re-bucketed groups, stale
// manifests. Directories the removals emptied are pruned afterwards.
func (s *Store) Clean() error {
	var errs []error
	for _, path := range sortedMapKeys(s.readFiles) {
		if s.savedFiles[path] {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if err := CleanEmptyDirs(s.Dir); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CleanEmptyDirs removes empty directories under root, deepest first
// so a directory that only held empty directories goes too. root
// itself stays.
func CleanEmptyDirs(root string) error {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// a child path is always longer than its parent
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}
	return nil
}
