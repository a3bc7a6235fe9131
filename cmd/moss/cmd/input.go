package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ntwiles/moss/internal/diag"
)

// readProgramInput reads the JSON-encoded program from the named file, or
// from stdin when no path is given (args is empty).
func readProgramInput(args []string) (src string, sourceName string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

func colorEnabled() bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return diag.IsTerminalStderr(os.Stderr.Fd())
	}
}
