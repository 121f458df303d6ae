package discset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/desertthunder/chdm3u/internal/shared"
)

// CheckDirectory returns an error wrapping [shared.ErrInvalidDirectory] unless dir exists and is a directory.
func CheckDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidDirectory, dir)
	}
	return nil
}

// ListFiles returns the names of regular files directly inside dir, sorted lexicographically.
//
// Symlinks count when they resolve to a regular file. Subdirectories are not descended into.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDirectoryRead, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err == nil && info.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}
