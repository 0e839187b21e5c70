package cleaner

import (
	"errors"
	"fmt"
	"io"
)

// ErrNoPath indicates no notebook path was supplied.
var ErrNoPath = errors.New("no notebook path given")

// ErrNotRegular indicates the notebook path names a directory.
var ErrNotRegular = errors.New("not a regular file")

// UsageError represents a command-line misuse.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return e.Err.Error()
	}
	return "usage: " + e.Usage
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates the notebook path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ParseError indicates the notebook content is not a JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Format(s fmt.State, verb rune) {
	formatWrapped(s, verb, e.Error(), e.Err)
}

// ProcessError represents a failure after the notebook was found.
type ProcessError struct {
	Path  string
	Stage string // "configure", "read", "clean", "encode", "write"
	Err   error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

func (e *ProcessError) Format(s fmt.State, verb rune) {
	formatWrapped(s, verb, e.Error(), e.Err)
}

// formatWrapped prints msg, and with %+v the cause's stack trace below it.
func formatWrapped(s fmt.State, verb rune, msg string, cause error) {
	switch verb {
	case 'v':
		if s.Flag('+') && cause != nil {
			fmt.Fprintf(s, "%s\n%+v", msg, cause)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, msg)
	case 'q':
		fmt.Fprintf(s, "%q", msg)
	}
}
