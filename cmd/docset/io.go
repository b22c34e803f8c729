package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/n2code/docset/internal/output"
)

// isTerminal reports whether the writer is an interactive terminal, i.e. escape sequences are understood.
func isTerminal(w io.Writer) bool {
	f, isFile := w.(*os.File)
	return isFile && term.IsTerminal(int(f.Fd()))
}

func (o *globalOptions) printer(out io.Writer, errOut io.Writer) output.Printer {
	classes := []output.Class{output.Required, output.Error}
	switch {
	case o.verbose:
		classes = append(classes, output.Normal, output.Verbose)
	case !o.quiet:
		classes = append(classes, output.Normal)
	}
	return output.NewPrinterTo(out, errOut, classes, !o.plain && isTerminal(out))
}

func (o *globalOptions) logger(errOut io.Writer) *log.Logger {
	level := log.WarnLevel
	switch {
	case o.verbose:
		level = log.DebugLevel
	case o.quiet:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(errOut, log.Options{
		Prefix: "docset",
		Level:  level,
	})
}
