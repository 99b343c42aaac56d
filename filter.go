package lrudirs

import (
	"io/fs"
	"strings"
)

// Filter decides whether a child of the root found at startup is registered.
// path is the child's full path.
type Filter func(path string, info fs.FileInfo) bool

// SkipHidden rejects dot-prefixed children.
func SkipHidden(_ string, info fs.FileInfo) bool {
	return !strings.HasPrefix(info.Name(), ".")
}

// DirsOnly rejects anything that is not a directory.
func DirsOnly(_ string, info fs.FileInfo) bool {
	return info.IsDir()
}

// All accepts a child only if every filter accepts it.
func All(filters ...Filter) Filter {
	return func(path string, info fs.FileInfo) bool {
		for _, f := range filters {
			if f != nil && !f(path, info) {
				return false
			}
		}
		return true
	}
}
