package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/cuebit/errors"
)

// Process exit codes by error kind.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitConflict   = 4
	ExitStore      = 5
)

// ExitCode maps err onto the process exit code for its kind.
func ExitCode(err error) int {
	switch errors.Kind(err) {
	case "":
		return ExitOK
	case errors.KindValidation:
		return ExitValidation
	case errors.KindNotFound:
		return ExitNotFound
	case errors.KindConflict:
		return ExitConflict
	case errors.KindStore:
		return ExitStore
	default:
		return ExitFailure
	}
}

// PrintError writes err and its hints for a terminal user.
func PrintError(w io.Writer, err error) {
	fmt.Fprint(w, pterm.Error.Sprintfln("%v", err))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("hint:"), hint)
	}
}
