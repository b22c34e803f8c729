//go:build !windows

package docset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathToDoc(t *testing.T) {
	p := &Project{sourceDir: "/my/docs", suffixes: []string{".rst", ".txt", ".rst.txt"}}

	tests := []struct {
		name         string
		filename     string
		wantDocname  string
		wantDocument bool
	}{
		{name: "RelativeTopLevel", filename: "index.rst", wantDocname: "index", wantDocument: true},
		{name: "RelativeNested", filename: "guide/intro.rst", wantDocname: "guide/intro", wantDocument: true},
		{name: "SecondSuffix", filename: "notes.txt", wantDocname: "notes", wantDocument: true},
		{name: "FirstDeclaredSuffixWins", filename: "changes.rst.txt", wantDocname: "changes.rst", wantDocument: true},
		{name: "AbsoluteBelowSource", filename: "/my/docs/guide/intro.rst", wantDocname: "guide/intro", wantDocument: true},
		{name: "AbsoluteOutsideSource", filename: "/my/other/intro.rst", wantDocument: false},
		{name: "AbsoluteSiblingWithSamePrefix", filename: "/my/docs2/intro.rst", wantDocument: false},
		{name: "NoMatchingSuffix", filename: "image.png", wantDocument: false},
		{name: "SuffixOnlyInTheMiddle", filename: "intro.rst.bak", wantDocument: false},
		{name: "BareSuffix", filename: ".rst", wantDocument: false},
		{name: "BareSuffixInDirectory", filename: "guide/.rst", wantDocument: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docname, isDocument := p.PathToDoc(tt.filename)
			assert.Equal(t, tt.wantDocument, isDocument)
			assert.Equal(t, tt.wantDocname, docname)
		})
	}
}

func TestDocToPathFallsBackToFirstSuffix(t *testing.T) {
	p, err := New(t.TempDir(), []string{".rst", ".txt"}, CreateConfig{Logger: &recordingLogger{}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("a", "b.rst"), p.DocToPath("a/b", false))
	assert.Equal(t, filepath.Join(p.SourceDir(), "a", "b.rst"), p.DocToPath("a/b", true))
}

func TestDocToPathPrefersExistingFile(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "a/b.txt")
	p, err := New(root, []string{".rst", ".txt"}, CreateConfig{Logger: &recordingLogger{}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("a", "b.txt"), p.DocToPath("a/b", false))
	assert.Equal(t, filepath.Join(root, "a", "b.txt"), p.DocToPath("a/b", true))

	createTree(t, root, "a/b.rst")
	assert.Equal(t, filepath.Join("a", "b.rst"), p.DocToPath("a/b", false), "declared order decides between existing files")
}

func TestDocToPathIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b.rst"), 0o755))
	createTree(t, root, "a/b.txt")
	p, err := New(root, []string{".rst", ".txt"}, CreateConfig{Logger: &recordingLogger{}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("a", "b.txt"), p.DocToPath("a/b", false))
}

func TestRoundTrip(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "guide/intro.txt", "guide/deep/ref.md")
	p, err := New(root, []string{".rst", ".txt", ".md"}, CreateConfig{Logger: &recordingLogger{}})
	require.NoError(t, err)

	for _, docname := range []string{"index", "guide/intro", "guide/deep/ref"} {
		for _, absolute := range []bool{true, false} {
			back, isDocument := p.PathToDoc(p.DocToPath(docname, absolute))
			assert.True(t, isDocument, docname)
			assert.Equal(t, docname, back)
		}
	}
}

func TestRelativeToRoot(t *testing.T) {
	assertRelPath := func(full string, expRel string) {
		t.Helper()
		actRel, below := relativeToRoot(full, "/dummy/root")
		assert.True(t, below, "expected %s to be below root", full)
		assert.Equal(t, expRel, actRel)
	}
	assertOutside := func(full string) {
		t.Helper()
		actRel, below := relativeToRoot(full, "/dummy/root")
		assert.False(t, below, "expected %s to be outside root", full)
		assert.Empty(t, actRel)
	}

	assertRelPath("/dummy/root/file", "file")
	assertRelPath("/dummy/root/a/b/file", "a/b/file")
	assertRelPath("/dummy/root/..file", "..file")
	assertOutside("/dummy/root")
	assertOutside("/dummy/different/a/b/file")
	assertOutside("/root_file")
}
