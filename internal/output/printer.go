package output

import (
	"fmt"
	"io"
)

type Class int

const (
	Required Class = iota //requested information
	Error
	Normal //convenience output repeating context
	Verbose
)

// Printer routes output by class, dropping classes not included. Errors go to the diagnosis stream.
type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinterTo(terminal io.Writer, diagnosis io.Writer, include []Class, allowEscapes bool) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   terminal,
		diagnosis:  diagnosis,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

func (p Printer) Out(class Class, format string, values ...any) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	if class == Error {
		target = p.diagnosis
	}
	fmt.Fprintf(target, format, values...)
}

// Styled is like Out but colors the whole message if escapes are allowed.
func (p Printer) Styled(class Class, modifier SgrModifier, format string, values ...any) {
	p.Out(class, "%s", TerminalFormat(p.useEscapes, modifier, fmt.Sprintf(format, values...)))
}
