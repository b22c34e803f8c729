package docset

import (
	"fmt"
	"strings"
)

// CommandError describes a failed user-facing operation along with its cause.
type CommandError struct {
	message string
	cause   error
}

func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *CommandError) Unwrap() error {
	return e.cause
}

func NewCommandError(message string, cause error) *CommandError {
	return &CommandError{message: message, cause: cause}
}
