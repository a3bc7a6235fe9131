package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ntwiles/moss/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose  bool
	trace    bool
	colorArg string
	cfg      config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moss",
	Short: "Moss language analyzer and interpreter",
	Long: `moss is a Go implementation of the Moss expression-oriented language's
semantic analyzer and tree-walking interpreter.

Moss has no built-in parser in this distribution: the grammar is an
external collaborator. moss's subcommands consume a JSON encoding of the
already-parsed program tree, produced by a host frontend or by pkg/moss's
embedding API.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set verbose mode in the loaded config (no command reads it)")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "pretty-print the typed program to stderr before it runs")
	rootCmd.PersistentFlags().StringVar(&colorArg, "color", "", "diagnostic color: auto, always, or never (overrides .moss.yaml)")
}

// loadConfig finds and loads .moss.yaml from the working directory before
// any subcommand runs, then layers CLI flags over it.
func loadConfig(_ *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	loaded, err := config.LoadFromDir(dir)
	if err != nil {
		return err
	}
	cfg = loaded

	if trace {
		cfg.Trace = true
	}
	if verbose {
		cfg.Verbose = true
	}
	if colorArg != "" {
		mode := config.ColorMode(colorArg)
		switch mode {
		case config.ColorAuto, config.ColorAlways, config.ColorNever:
			cfg.Color = mode
		default:
			return fmt.Errorf("--color must be one of auto|always|never, got %q", colorArg)
		}
	}
	return nil
}
