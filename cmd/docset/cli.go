package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-zglob"
	"github.com/spf13/cobra"

	"github.com/n2code/docset"
	"github.com/n2code/docset/cmd/docset/flags"
	"github.com/n2code/docset/internal/config"
	"github.com/n2code/docset/internal/output"
	"github.com/n2code/docset/internal/snapshot"
)

type globalOptions struct {
	dir        string
	configFile string
	verbose    bool
	quiet      bool
	plain      bool
}

// session bundles everything a command needs once configuration is resolved.
type session struct {
	cfg     *config.Config
	project *docset.Project
	print   output.Printer
	log     *log.Logger
}

func (o *globalOptions) open(out io.Writer, errOut io.Writer) (*session, error) {
	sourceDir, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, docset.NewCommandError("bad source directory", err)
	}
	logger := o.logger(errOut)
	cfg, cfgPath, err := config.Load(sourceDir, o.configFile)
	if err != nil {
		return nil, docset.NewCommandError("configuration unusable", err)
	}
	if cfgPath != "" {
		logger.Debug("configuration loaded", "path", cfgPath)
	} else {
		logger.Debug("no configuration file, using defaults", "dir", sourceDir)
	}
	project, err := docset.New(sourceDir, cfg.SourceSuffix, docset.CreateConfig{Logger: logger})
	if err != nil {
		return nil, docset.NewCommandError("project setup failed", err)
	}
	return &session{cfg: cfg, project: project, print: o.printer(out, errOut), log: logger}, nil
}

func newRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "docset",
		Short: "Find the documents of a documentation project",
		Long: `docset lists which files below a source directory are documents, identified
by their suffix (see source_suffix in ` + config.FileName + `), and maps between
docnames (path without suffix, slash separated) and file paths.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose && opts.quiet {
				return errors.New("quiet mode and verbose mode are mutually exclusive")
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.dir, flags.Directory, flags.DirectoryShort, ".", "source directory of the project")
	pf.StringVar(&opts.configFile, flags.Config, "", "configuration file (default: "+config.FileName+" in the source directory)")
	pf.BoolVarP(&opts.verbose, flags.Verbose, flags.VerboseShort, false, "output more details on what is done (verbose mode)")
	pf.BoolVarP(&opts.quiet, flags.Quiet, flags.QuietShort, false, "output only requested information (quiet mode)")
	pf.BoolVarP(&opts.plain, flags.Plain, flags.PlainShort, false, "never use terminal escape sequences")

	root.AddCommand(
		newInitCommand(opts, out, errOut),
		newDiscoverCommand(opts, out, errOut),
		newTreeCommand(opts, out, errOut),
		newPathToDocCommand(opts, out, errOut),
		newDocToPathCommand(opts, out, errOut),
	)
	return root
}

func newInitCommand(opts *globalOptions, out io.Writer, errOut io.Writer) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init [DIRECTORY]",
		Short: "Write a default " + config.FileName + " into the source directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) == 1 {
				dir = args[0]
			}
			target := filepath.Join(dir, config.FileName)
			if err := config.Write(target, config.Defaults(), overwrite); err != nil {
				return docset.NewCommandError("init failed", err)
			}
			opts.printer(out, errOut).Out(output.Normal, "Configuration written to %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, flags.InitOverwrite, false, "replace an existing configuration file")
	return cmd
}

func newDiscoverCommand(opts *globalOptions, out io.Writer, errOut io.Writer) *cobra.Command {
	var excludes []string
	var save, skipSnapshot bool
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List all documents of the project",
		Long: `List the docnames of all readable documents below the source directory.
Unless disabled the result of the previous run is restored from the snapshot file
first, so verbose mode can report documents that appeared or vanished since.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(out, errOut)
			if err != nil {
				return err
			}
			var previous docset.DocumentSet
			if !skipSnapshot {
				if previous, err = s.restorePreviousRun(); err != nil {
					return err
				}
			}
			found, err := s.discover(excludes)
			if err != nil {
				return err
			}
			for _, docname := range found.Sorted() {
				s.print.Out(output.Required, "%s\n", docname)
			}
			if previous != nil {
				s.reportChanges(previous, found)
			}
			s.print.Styled(output.Normal, output.Dim, "%s found\n", output.Count(found.Len(), "document", "documents"))
			if save {
				return s.saveSnapshot(found)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&excludes, flags.Exclude, flags.ExcludeShort, nil, "additional exclude pattern (repeatable), e.g. 'drafts/**'")
	cmd.Flags().BoolVar(&save, flags.DiscoverAndSave, false, "store the result in the snapshot file for the next run")
	cmd.Flags().BoolVar(&skipSnapshot, flags.DiscoverWithoutSnapshot, false, "do not restore the previous run from the snapshot file")
	return cmd
}

func newTreeCommand(opts *globalOptions, out io.Writer, errOut io.Writer) *cobra.Command {
	var excludes []string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Display all documents of the project as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(out, errOut)
			if err != nil {
				return err
			}
			found, err := s.discover(excludes)
			if err != nil {
				return err
			}
			tree := output.NewDocumentTree(filepath.Base(s.project.SourceDir()))
			for _, docname := range found.Sorted() {
				tree.Insert(docname, "")
			}
			s.print.Out(output.Required, "%s", tree.Render())
			s.print.Styled(output.Normal, output.Dim, "%s found\n", output.Count(found.Len(), "document", "documents"))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&excludes, flags.Exclude, flags.ExcludeShort, nil, "additional exclude pattern (repeatable)")
	return cmd
}

func newPathToDocCommand(opts *globalOptions, out io.Writer, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "path2doc PATH...",
		Short: "Print the docname of each file",
		Long: `Print the docname of each file. PATHs are relative to the working directory
and may be glob patterns (** included) which are expanded. Files that are not
documents are reported and make the command fail.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(out, errOut)
			if err != nil {
				return err
			}
			misses := 0
			for _, arg := range args {
				paths, err := expandPathArgument(arg)
				if err != nil {
					return docset.NewCommandError(fmt.Sprintf("bad path %s", arg), err)
				}
				for _, path := range paths {
					if docname, isDocument := s.project.PathToDoc(path); isDocument {
						s.print.Out(output.Required, "%s\n", docname)
					} else {
						misses++
						s.print.Out(output.Error, "not a document: %s\n", path)
					}
				}
			}
			if misses > 0 {
				return fmt.Errorf("%s without docname", output.Count(misses, "path", "paths"))
			}
			return nil
		},
	}
}

func newDocToPathCommand(opts *globalOptions, out io.Writer, errOut io.Writer) *cobra.Command {
	var relative bool
	cmd := &cobra.Command{
		Use:   "doc2path DOCNAME...",
		Short: "Print the file path of each docname",
		Long: `Print the file path of each docname. If no file exists yet for a docname
the first configured suffix is assumed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(out, errOut)
			if err != nil {
				return err
			}
			for _, docname := range args {
				if docname == "" {
					return errors.New("empty docname")
				}
				s.print.Out(output.Required, "%s\n", s.project.DocToPath(docname, !relative))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&relative, flags.DocToPathRelative, false, "print paths relative to the source directory")
	return cmd
}

func (s *session) discover(extraExcludes []string) (docset.DocumentSet, error) {
	patterns := slices.Concat(s.cfg.ExcludePatterns, extraExcludes)
	s.log.Debug("discovering documents", "dir", s.project.SourceDir(), "suffixes", s.project.Suffixes(), "excludes", patterns)
	found, err := s.project.Discover(patterns...)
	if err != nil {
		return nil, docset.NewCommandError("discovery failed", err)
	}
	return found, nil
}

// restorePreviousRun seeds the project from the snapshot file. Without snapshot nil is returned.
func (s *session) restorePreviousRun() (docset.DocumentSet, error) {
	path := s.cfg.SnapshotPath(s.project.SourceDir())
	previous, err := snapshot.Load(path)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		s.log.Debug("no previous run on record", "snapshot", path)
		return nil, nil
	}
	if err != nil {
		return nil, docset.NewCommandError("restoring previous run failed", err)
	}
	if previous.SourceDir != s.project.SourceDir() {
		s.log.Warn("snapshot belongs to a different source directory, ignored", "snapshot", path, "dir", previous.SourceDir)
		return nil, nil
	}
	s.project.RestoreNames(docset.NewDocumentSet(previous.Docnames...))
	s.log.Debug("previous run restored", "documents", len(previous.Docnames), "taken", time.Unix(previous.Taken, 0).Format(time.RFC3339))
	return s.project.DocNames(), nil
}

func (s *session) reportChanges(previous docset.DocumentSet, current docset.DocumentSet) {
	if previous.Equal(current) {
		s.print.Out(output.Verbose, "No changes since previous run\n")
		return
	}
	for _, docname := range current.Sorted() {
		if !previous.Has(docname) {
			s.print.Styled(output.Verbose, output.Cyan, "+ %s\n", docname)
		}
	}
	for _, docname := range previous.Sorted() {
		if !current.Has(docname) {
			s.print.Styled(output.Verbose, output.Yellow, "- %s\n", docname)
		}
	}
}

func (s *session) saveSnapshot(found docset.DocumentSet) error {
	path := s.cfg.SnapshotPath(s.project.SourceDir())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return docset.NewCommandError("snapshot directory unusable", err)
	}
	if err := snapshot.New(s.project.SourceDir(), found.Sorted()).Save(path, true); err != nil {
		return docset.NewCommandError("snapshot not saved", err)
	}
	s.print.Out(output.Verbose, "Snapshot saved to %s\n", path)
	return nil
}

// expandPathArgument turns a command line path into absolute paths, expanding glob patterns.
func expandPathArgument(arg string) ([]string, error) {
	candidates := []string{arg}
	if strings.ContainsAny(arg, "*?[{") {
		matches, err := zglob.Glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.New("pattern matches nothing")
		}
		candidates = matches
	}
	absolute := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return nil, err
		}
		absolute = append(absolute, abs)
	}
	return absolute, nil
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		message := err.Error()
		if isTerminal(os.Stderr) {
			message = output.TerminalFormatAsError(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}
	os.Exit(0)
}
