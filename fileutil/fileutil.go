package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// HasPrefix checks a path has a prefix, making sure to respect path boundaries. So that /aa & /a does not match, but /a/a & /a does.
func HasPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, filepath.Clean(prefix)+string(filepath.Separator))
}

// Roots cleans paths and drops any that are the same as, or inside of,
// another one. The rest are returned sorted.
func Roots(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, filepath.Clean(p))
	}
	sort.Strings(cleaned)

	var roots []string
	for _, p := range cleaned {
		if len(roots) > 0 && HasPrefix(p, roots[len(roots)-1]) {
			continue
		}
		roots = append(roots, p)
	}
	return roots
}
