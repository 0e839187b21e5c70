package commands

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/jmylchreest/nbclean/pkg/cleaner"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitFailure = 2
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usage *cleaner.UsageError
	var notFound *cleaner.NotFoundError
	if errors.As(err, &usage) || errors.As(err, &notFound) {
		return ExitUsage
	}
	return ExitFailure
}

// printError writes the one-line message for usage errors and the header plus
// full trace for everything else.
func printError(stdout, stderr io.Writer, err error) {
	if ExitCode(err) == ExitUsage {
		fmt.Fprintf(stdout, "[ERROR] %s\n", err)
		return
	}
	fmt.Fprintln(stdout, "[ERROR] exception during cleanup:")
	fmt.Fprintf(stderr, "%+v\n", err)
}
