package docset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/docset/internal/walk"
)

// DocnameSeparator is the canonical directory separator inside docnames regardless of platform.
const DocnameSeparator = "/"

const dot string = "."
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + string(filepath.Separator)

// PathToDoc maps a filename to its docname if the file is a document.
// The filename may be absolute or relative to the source directory. Absolute paths outside of it are never documents.
// The suffixes are tried in order, the first one matching is stripped.
// If no suffix matches the file is not a document and isDocument is false.
// Neither is a file consisting of the bare suffix, e.g. ".rst" or "dir/.rst", since its docname
// would be empty or end in a separator.
func (p *Project) PathToDoc(filename string) (docname string, isDocument bool) {
	if filepath.IsAbs(filepath.FromSlash(filename)) {
		rel, below := relativeToRoot(filepath.FromSlash(filename), p.sourceDir)
		if !below {
			return "", false
		}
		filename = rel
	}
	filename = walk.StablePath(filename)
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(filename, suffix) {
			docname = strings.TrimSuffix(filename, suffix)
			if docname == "" || strings.HasSuffix(docname, DocnameSeparator) { //bare suffix is a hidden file, not a document
				return "", false
			}
			return docname, true
		}
	}
	return "", false
}

// DocToPath maps a docname to the file backing it.
// The first suffix for which a regular file exists wins. If none exists yet (document not created)
// the first suffix is used. With absolute set the path is rooted in the source directory,
// otherwise it is relative to it. The result is system-native.
func (p *Project) DocToPath(docname string, absolute bool) string {
	nativeName := strings.ReplaceAll(docname, DocnameSeparator, string(filepath.Separator))
	base := filepath.Join(p.sourceDir, nativeName)

	chosen := p.suffixes[0]
	for _, suffix := range p.suffixes {
		if isRegularFile(base + suffix) {
			chosen = suffix
			break
		}
	}

	if absolute {
		return base + chosen
	}
	return nativeName + chosen
}

func isRegularFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// relativeToRoot yields the path relative to root if it is located below root.
func relativeToRoot(absolutePath string, root string) (relativePath string, below bool) {
	relativePath, err := filepath.Rel(root, absolutePath)
	if err != nil || relativePath == dot || relativePath == doubleDot || strings.HasPrefix(relativePath, doubleDotDirSeparator) {
		return "", false
	}
	return relativePath, true
}
