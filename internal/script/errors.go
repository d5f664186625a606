package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrEngineClosed is returned when compiling on a closed engine.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrRecursionLimit is raised when actions invoke each other too deeply.
	ErrRecursionLimit = errors.New("script recursion limit exceeded")
)

// CompileError reports a snippet that failed to parse.
type CompileError struct {
	Action string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling action %s: %v", e.Action, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
