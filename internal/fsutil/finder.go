// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension searches the given root path for all files ending with
// the specified extension and returns their full paths, sorted. A root that
// is itself a matching file is returned as-is.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if strings.HasSuffix(rootPath, extension) {
			return []string{rootPath}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FindInputDirs recursively looks for directories that directly contain a
// folder named marker (e.g. "csv_elements") and returns them, skipping any
// directory whose name is listed in ignore. The search does not descend into
// a directory once it matched.
func FindInputDirs(root, marker string, ignore ...string) ([]string, error) {
	ignored := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		ignored[name] = struct{}{}
	}

	var dirs []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() && entry.Name() == marker {
				dirs = append(dirs, dir)
				return nil
			}
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if _, skip := ignored[entry.Name()]; skip {
				continue
			}
			if err := walk(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}
