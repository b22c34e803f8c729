package output

import "fmt"

type SgrModifier int

const (
	DefaultForeground SgrModifier = 39
	Red               SgrModifier = 31
	Yellow            SgrModifier = 33
	Cyan              SgrModifier = 36
	Dim               SgrModifier = 2
)

// TerminalFormat wraps text in the given SGR escape sequence if escapes are allowed.
func TerminalFormat(allowEscapes bool, modifier SgrModifier, text string) string {
	if !allowEscapes || modifier == DefaultForeground {
		return text
	}
	return fmt.Sprintf("\x1B[%dm%s\x1B[0m", modifier, text)
}

func TerminalFormatAsError(text string) string {
	return TerminalFormat(true, Red, text)
}
