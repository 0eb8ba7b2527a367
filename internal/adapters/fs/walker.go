// Package fs provides file system adapters for walking and hashing source trees.
package fs

import (
	"io/fs"
	"iter"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

// alwaysSkipped holds directory names never part of a module's sources.
var alwaysSkipped = []string{".git", ".jj", domain.StateDirName}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the regular files below root in lexical order.
// An ignore entry containing a slash, such as "./core", is a path relative to root; any other
// entry is a glob matched against file and directory base names.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			rel, _ := filepath.Rel(root, path)
			if w.ignored(d, filepath.ToSlash(rel), ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) ignored(d fs.DirEntry, rel string, ignores []string) bool {
	name := d.Name()
	if d.IsDir() && slices.Contains(alwaysSkipped, name) {
		return true
	}

	for _, ignore := range ignores {
		if strings.Contains(ignore, "/") {
			if path.Clean(ignore) == rel {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
