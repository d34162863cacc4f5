package features

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// isPattern reports whether an input path contains glob characters.
func isPattern(path string) bool { return strings.ContainsAny(path, "*?[{") }

// Inputs returns the files of an input path, sorted.
//
// A path without glob characters is a single file. Otherwise it is a pattern
// where "**" matches any number of folders, like "exports/**/*.csv", and at
// least one regular file must match.
func Inputs(path string) ([]string, error) {
	if !isPattern(path) {
		return []string{path}, nil
	}
	matches, err := doublestar.FilepathGlob(path)
	if err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %w", path, err)
	}
	var files []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no file matches %q: %w", path, fs.ErrNotExist)
	}
	slices.Sort(files)
	return files, nil
}

// inputDir returns the folder holding the files of an input path.
func inputDir(path string) string {
	if !isPattern(path) {
		return filepath.Dir(path)
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(path))
	return filepath.FromSlash(base)
}

// matchInput reports whether 'name' is one of the files of an input path.
func matchInput(path, name string) bool {
	name = filepath.Clean(name)
	if !isPattern(path) {
		return name == filepath.Clean(path)
	}
	ok, err := doublestar.PathMatch(filepath.Clean(path), name)
	return err == nil && ok
}
