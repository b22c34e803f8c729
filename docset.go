// Package docset keeps track of the documents of a documentation project:
// which files below a source directory are documents and how their docnames map to paths and back.
package docset

import "sort"

// DocumentSet is a set of docnames. The zero value is an empty, read-only set; use make or a literal to add.
type DocumentSet map[string]struct{}

// NewDocumentSet creates a set holding the given docnames.
func NewDocumentSet(docnames ...string) DocumentSet {
	s := make(DocumentSet, len(docnames))
	for _, name := range docnames {
		s.Add(name)
	}
	return s
}

func (s DocumentSet) Add(docname string) {
	s[docname] = struct{}{}
}

func (s DocumentSet) Has(docname string) bool {
	_, found := s[docname]
	return found
}

func (s DocumentSet) Len() int {
	return len(s)
}

// Sorted lists all docnames in lexical order.
func (s DocumentSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone yields an independent copy, never nil.
func (s DocumentSet) Clone() DocumentSet {
	c := make(DocumentSet, len(s))
	for name := range s {
		c[name] = struct{}{}
	}
	return c
}

func (s DocumentSet) Equal(other DocumentSet) bool {
	if len(s) != len(other) {
		return false
	}
	for name := range s {
		if !other.Has(name) {
			return false
		}
	}
	return true
}
