// Package walk enumerates candidate files below a root directory.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"github.com/n2code/docset/internal/matching"
)

// ErrLinkLoop is reported for a directory link pointing back to one of its own ancestors.
var ErrLinkLoop = errors.New("directory link loop")

// Observer receives notable events of a walk. Nil fields are ignored.
// All relative paths passed to it are stable (see StablePath).
type Observer struct {
	// Error receives problems below the root, e.g. unreadable subdirectories.
	// A failure to access the root itself is reported with an empty relative path.
	Error func(relativePath string, err error)
	// Excluded receives every path left out and the pattern that caused it.
	Excluded func(relativePath string, pattern string)
}

func (o Observer) error(relativePath string, err error) {
	if o.Error != nil {
		o.Error(relativePath, err)
	}
}

func (o Observer) excluded(relativePath string, pattern string) {
	if o.Excluded != nil {
		o.Excluded(relativePath, pattern)
	}
}

// StablePath converts a system-native relative path to its canonical form:
// slash separated and in Unicode normalization form C.
func StablePath(relativePath string) string {
	return norm.NFC.String(filepath.ToSlash(relativePath))
}

// Files yields the stable relative paths of all files below root that are not excluded.
// Symbolic links are followed, including a linked root; a linked directory is walked like a real one
// unless it points back to a directory currently being walked. Directories themselves are never yielded,
// neither are excluded paths, and excluded directories are not descended into.
// Entries of a directory come in lexical order. The sequence is single-pass, iterating it twice walks twice.
func Files(root string, excludes matching.Matchers, observer Observer) iter.Seq[string] {
	return func(yield func(string) bool) {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			observer.error("", err)
			return
		}
		w := walker{
			excludes:  excludes,
			observer:  observer,
			yield:     yield,
			ancestors: make(map[string]struct{}),
		}
		w.directory(root, "", resolved)
	}
}

type walker struct {
	excludes  matching.Matchers
	observer  Observer
	yield     func(string) bool
	ancestors map[string]struct{} //resolved paths of the directories on the current descent
}

// directory walks dir, reachable as relativePath and physically located at resolved.
// It returns false as soon as the consumer stops.
func (w *walker) directory(dir string, relativePath string, resolved string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.observer.error(relativePath, err)
		return true
	}
	w.ancestors[resolved] = struct{}{}
	defer delete(w.ancestors, resolved)

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		rel := StablePath(entry.Name())
		if relativePath != "" {
			rel = relativePath + "/" + rel
		}

		if pattern, excluded := w.excludes.MatchingPattern(rel); excluded {
			w.observer.excluded(rel, pattern)
			continue
		}

		isDir := entry.IsDir()
		isLink := entry.Type()&fs.ModeSymlink != 0
		if isLink {
			//broken links are yielded like files, whoever opens them notices
			target, err := os.Stat(full)
			isDir = err == nil && target.IsDir()
		}
		if !isDir {
			if !w.yield(rel) {
				return false
			}
			continue
		}

		childResolved := filepath.Join(resolved, entry.Name())
		if isLink {
			childResolved, err = filepath.EvalSymlinks(full)
			if err != nil {
				w.observer.error(rel, err)
				continue
			}
			if _, looping := w.ancestors[childResolved]; looping {
				w.observer.error(rel, fmt.Errorf("%w: %s", ErrLinkLoop, childResolved))
				continue
			}
		}
		if !w.directory(full, rel, childResolved) {
			return false
		}
	}
	return true
}
