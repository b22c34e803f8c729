package output

import (
	"path"

	"github.com/disiqueira/gotree/v3"
)

// DocumentTree renders slash separated docnames as a directory tree.
type DocumentTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func NewDocumentTree(rootLabel string) DocumentTree {
	return DocumentTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t DocumentTree) getDir(dirPath string) (dir gotree.Tree) {
	if dirPath == "." || dirPath == "" {
		return t.tree
	}
	dir = t.dirs[dirPath]
	if dir == nil {
		parentDir := t.getDir(path.Dir(dirPath))
		dir = parentDir.Add(path.Base(dirPath) + "/")
		t.dirs[dirPath] = dir
	}
	return
}

// Insert adds a docname below its directories, the label defaults to the last docname segment.
// Insertion order is kept, so insert sorted docnames for a sorted tree.
func (t DocumentTree) Insert(docname string, label string) {
	if label == "" {
		label = path.Base(docname)
	}
	t.getDir(path.Dir(docname)).Add(label)
}

func (t DocumentTree) Render() string {
	return t.tree.Print()
}
