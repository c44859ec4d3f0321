// Package locator finds the image files a batch should process.
package locator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindByExtension returns the names of the regular entries of dir whose name
// ends with one of extensions, sorted ascending.
//
// Matching is a literal suffix test: ".PNG" does not match "a.png" and "png"
// matches "a.png" as well as "apng". An empty suffix matches every name and an
// empty list matches nothing. Sub-directories are never returned. Errors from
// listing dir are returned unchanged.
func FindByExtension(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasAnySuffix(entry.Name(), extensions) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// Paths joins each name onto dir, keeping order.
func Paths(dir string, names []string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
