package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n2code/docset/internal/config"
)

func createTree(t *testing.T, root string, relativePaths ...string) {
	t.Helper()
	for _, rel := range relativePaths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(rel), 0o644))
	}
}

func run(t *testing.T, args ...string) (stdout string, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDiscoverCommand(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "guide/intro.rst", "guide/logo.png", "_build/html/index.rst")

	stdout, _, err := run(t, "discover", "-C", root)

	require.NoError(t, err)
	assert.Equal(t, "guide/intro\nindex\n2 documents found\n", stdout)
}

func TestDiscoverCommandQuietPrintsOnlyDocnames(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "drafts/todo.rst")

	stdout, _, err := run(t, "discover", "-q", "-C", root, "-x", "drafts/**")

	require.NoError(t, err)
	assert.Equal(t, "index\n", stdout)
}

func TestDiscoverCommandUsesConfiguration(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.md", "notes.txt", "skip/me.md")
	require.NoError(t, config.Write(filepath.Join(root, config.FileName), config.Config{
		SourceSuffix:    []string{".md", ".txt"},
		ExcludePatterns: []string{"skip"},
		Snapshot:        ".snapshot",
	}, false))

	stdout, _, err := run(t, "discover", "-q", "-C", root)

	require.NoError(t, err)
	assert.Equal(t, "index\nnotes\n", stdout)
}

func TestDiscoverCommandReportsChangesSinceSnapshot(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "keep.rst", "old.rst")

	_, _, err := run(t, "discover", "-q", "--save", "-C", root)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "_build", ".docset.snapshot"))
	require.NoError(t, err, "snapshot must be written to the default location")

	require.NoError(t, os.Remove(filepath.Join(root, "old.rst")))
	createTree(t, root, "new.rst")

	stdout, _, err := run(t, "discover", "-v", "-C", root)

	require.NoError(t, err)
	assert.Contains(t, stdout, "+ new\n")
	assert.Contains(t, stdout, "- old\n")
	assert.NotContains(t, stdout, "+ keep")

	stdout, _, err = run(t, "discover", "-v", "--no-snapshot", "-C", root)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "- old")
}

func TestDiscoverCommandReportsUnchangedProject(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "guide/intro.rst")

	_, _, err := run(t, "discover", "-q", "--save", "-C", root)
	require.NoError(t, err)

	stdout, _, err := run(t, "discover", "-v", "-C", root)

	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes since previous run\n")
	assert.NotContains(t, stdout, "+ ")
}

func TestDiscoverCommandLogsExclusionsVerbosely(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "drafts/todo.rst")

	stdout, stderr, err := run(t, "discover", "-v", "--no-snapshot", "-C", root, "-x", "drafts")

	require.NoError(t, err)
	assert.Contains(t, stdout, "index\n")
	assert.Contains(t, stderr, "excluded")
	assert.Contains(t, stderr, "drafts")
}

func TestDiscoverCommandFailsOnBadPattern(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst")

	_, _, err := run(t, "discover", "-C", root, "-x", "[oops")
	assert.Error(t, err)
}

func TestTreeCommand(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "guide/intro.rst", "guide/deep/ref.rst")

	stdout, _, err := run(t, "tree", "-C", root)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, filepath.Base(root)+"\n"))
	for _, label := range []string{"guide/", "deep/", "ref", "intro", "index", "3 documents found"} {
		assert.Contains(t, stdout, label)
	}
}

func TestPathToDocCommand(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "index.rst", "guide/intro.rst", "guide/logo.png")

	stdout, _, err := run(t, "path2doc", "-C", root, filepath.Join(root, "guide", "intro.rst"), filepath.Join(root, "index.rst"))
	require.NoError(t, err)
	assert.Equal(t, "guide/intro\nindex\n", stdout)

	stdout, stderr, err := run(t, "path2doc", "-C", root, filepath.Join(root, "guide", "logo.png"))
	assert.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "not a document")
}

func TestPathToDocCommandExpandsGlobs(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "a.rst", "sub/b.rst", "sub/deeper/c.rst", "sub/d.txt")

	stdout, _, err := run(t, "path2doc", "-C", root, filepath.Join(root, "**", "*.rst"))

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.ElementsMatch(t, []string{"a", "sub/b", "sub/deeper/c"}, lines)
}

func TestDocToPathCommand(t *testing.T) {
	root := t.TempDir()
	createTree(t, root, "guide/intro.rst")

	stdout, _, err := run(t, "doc2path", "-C", root, "--relative", "guide/intro", "not/yet")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("guide", "intro.rst")+"\n"+filepath.Join("not", "yet.rst")+"\n", stdout)

	stdout, _, err = run(t, "doc2path", "-C", root, "guide/intro")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "guide", "intro.rst")+"\n", stdout)
}

func TestInitCommand(t *testing.T) {
	root := t.TempDir()

	_, _, err := run(t, "init", root)
	require.NoError(t, err)
	cfg, resolved, err := config.Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, config.FileName), resolved)
	assert.Equal(t, config.Defaults(), *cfg)

	_, _, err = run(t, "init", root)
	assert.Error(t, err, "existing configuration must not be replaced")
	_, _, err = run(t, "init", "--force", root)
	assert.NoError(t, err)
}

func TestVerboseAndQuietAreExclusive(t *testing.T) {
	_, _, err := run(t, "discover", "-v", "-q", "-C", t.TempDir())
	assert.Error(t, err)
}
