package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ntwiles/moss/internal/astjson"
	"github.com/ntwiles/moss/internal/diag"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [program.json]",
	Short: "Canonicalize a JSON-encoded Moss program's key order",
	Long: `Round-trip a JSON-encoded untyped program through the decoder and
re-encoder to a canonically key-ordered form, a thin analogue of a source
formatter for a language whose grammar lives outside this system. Input
that fails to decode is reported the same way moss run reports a parse
failure.

Examples:
  moss fmt program.json
  cat program.json | moss fmt
  moss fmt -w program.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the canonicalized form back to the source file")
}

func runFmt(_ *cobra.Command, args []string) error {
	src, sourceName, err := readProgramInput(args)
	if err != nil {
		return err
	}

	program, err := astjson.Decode(src)
	if err != nil {
		fmt.Fprint(os.Stderr, diag.New(diag.ParseError, err.Error()).Render(colorEnabled()))
		return fmt.Errorf("parsing failed for %s", sourceName)
	}

	canonical, err := astjson.Encode(program)
	if err != nil {
		return fmt.Errorf("re-encoding %s: %w", sourceName, err)
	}

	if fmtWrite {
		if len(args) == 0 {
			return fmt.Errorf("-w requires a file argument, not stdin")
		}
		return os.WriteFile(args[0], []byte(canonical+"\n"), 0o644)
	}

	fmt.Println(canonical)
	return nil
}
