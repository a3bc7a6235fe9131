package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ntwiles/moss/internal/astjson"
	"github.com/ntwiles/moss/internal/diag"
	"github.com/ntwiles/moss/internal/types"
	"github.com/ntwiles/moss/pkg/moss"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [program.json]",
	Short: "Type-check a JSON-encoded Moss program",
	Long: `Run only the semantic analyzer against a JSON-encoded untyped
program and print the inferred top-level type, or the structured TypeError
if analysis fails. No interpretation happens.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	src, sourceName, err := readProgramInput(args)
	if err != nil {
		return err
	}

	program, err := astjson.Decode(src)
	if err != nil {
		fmt.Fprint(os.Stderr, diag.New(diag.ParseError, err.Error()).Render(colorEnabled()))
		return fmt.Errorf("parsing failed for %s", sourceName)
	}

	typed, err := moss.Analyze(program, cfg)
	if err != nil {
		fmt.Fprint(os.Stderr, diag.New(diag.TypeError, err.Error()).Render(colorEnabled()))
		return fmt.Errorf("analysis failed for %s", sourceName)
	}

	fmt.Println(types.Display(typed.Ty()))
	return nil
}
