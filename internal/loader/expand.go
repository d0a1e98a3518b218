package loader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatch is returned by ExpandInputs when a glob pattern matches no file.
var ErrNoMatch = errors.New("pattern matches no files")

// ExpandInputs turns the report arguments into export paths.
//
// Plain paths are kept as they are, so a missing file is still reported by
// Load as an IOError. Arguments containing glob metacharacters are expanded
// with doublestar, which supports "**" for any number of directories; the
// matches of one pattern are sorted. A path appearing more than once is kept
// at its first position only.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{}, len(patterns))
	paths := make([]string, 0, len(patterns))

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	for _, pattern := range patterns {
		if !isGlob(pattern) {
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", pattern, ErrNoMatch)
		}

		slices.Sort(matches)
		for _, match := range matches {
			add(match)
		}
	}

	return paths, nil
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
