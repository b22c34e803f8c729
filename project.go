package docset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/n2code/docset/internal/matching"
	"github.com/n2code/docset/internal/walk"
)

// BuiltinExcludePatterns are always appended to the caller's exclude patterns during discovery:
// copied sources of generated output, editor lock/backup files, and localization bundles.
var BuiltinExcludePatterns = []string{"**/_sources", ".#*", "**/.#*", "*.lproj/**"}

var ErrNoSourceSuffixes = errors.New("at least one source suffix is required")

// Logger is the diagnostic sink of a project. *log.Logger of charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

// CreateConfig holds optional settings for New. The zero value is a sensible default.
type CreateConfig struct {
	// Logger receives warnings, e.g. about unreadable documents, and debug output such as excluded paths.
	// Defaults to stderr at warning level.
	Logger Logger
}

// Project is the set of documents found in a source directory.
// It is not safe for concurrent use.
type Project struct {
	sourceDir string   //absolute, system-native path
	suffixes  []string //order is significant, first match wins
	docnames  DocumentSet
	logger    Logger
}

// New creates a project rooted at the given source directory recognizing files by the given suffixes.
// The suffix order decides ties (see PathToDoc and DocToPath).
func New(sourceDir string, suffixes []string, config CreateConfig) (*Project, error) {
	if len(suffixes) == 0 {
		return nil, ErrNoSourceSuffixes
	}
	for _, suffix := range suffixes {
		if suffix == "" {
			return nil, errors.New("empty source suffix")
		}
	}
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory %s unusable: %w", sourceDir, err)
	}
	p := &Project{
		sourceDir: abs,
		suffixes:  append([]string(nil), suffixes...),
		docnames:  DocumentSet{},
		logger:    config.Logger,
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "docset"})
	}
	return p, nil
}

// SourceDir yields the absolute source directory.
func (p *Project) SourceDir() string {
	return p.sourceDir
}

// Suffixes yields a copy of the recognized suffixes in their significant order.
func (p *Project) Suffixes() []string {
	return append([]string(nil), p.suffixes...)
}

// DocNames yields a copy of the currently known documents.
func (p *Project) DocNames() DocumentSet {
	return p.docnames.Clone()
}

// Restore takes over the documents of another project, e.g. the result of a previous run.
// The current set is replaced, not merged.
func (p *Project) Restore(other *Project) {
	p.docnames = other.docnames.Clone()
}

// RestoreNames is like Restore but takes the documents from a plain set, e.g. a loaded snapshot.
func (p *Project) RestoreNames(names DocumentSet) {
	p.docnames = names.Clone()
}

// Discover finds all documents in the source directory and makes them the project's document set.
// Paths matching any of the exclude patterns or BuiltinExcludePatterns are skipped.
// Symbolic links are followed, both for the source directory itself and below it.
// Unreadable documents are reported to the logger and left out, they do not fail discovery.
// An error is returned only for malformed patterns or an inaccessible source directory,
// in which case the document set is left empty.
func (p *Project) Discover(excludePatterns ...string) (DocumentSet, error) {
	p.docnames = DocumentSet{}

	patterns := make([]string, 0, len(excludePatterns)+len(BuiltinExcludePatterns))
	patterns = append(patterns, excludePatterns...)
	patterns = append(patterns, BuiltinExcludePatterns...)
	excludes, err := matching.Compile(patterns)
	if err != nil {
		return p.DocNames(), err
	}

	stat, err := os.Stat(p.sourceDir)
	if err != nil {
		return p.DocNames(), fmt.Errorf("source directory inaccessible: %w", err)
	}
	if !stat.IsDir() {
		return p.DocNames(), fmt.Errorf("source directory is not a directory: %s", p.sourceDir)
	}

	observer := walk.Observer{
		Error: func(relativePath string, err error) {
			p.logger.Warn("cannot enumerate files, skipped", "location", relativePath, "err", err)
		},
		Excluded: func(relativePath string, pattern string) {
			p.logger.Debug("excluded", "location", relativePath, "pattern", pattern)
		},
	}
	for filename := range walk.Files(p.sourceDir, excludes, observer) {
		docname, isDocument := p.PathToDoc(filename)
		if !isDocument {
			continue
		}
		if walk.Readable(filepath.Join(p.sourceDir, filepath.FromSlash(filename))) {
			p.docnames.Add(docname)
		} else {
			p.logger.Warn("document not readable. Ignored.", "location", docname)
		}
	}

	return p.DocNames(), nil
}
