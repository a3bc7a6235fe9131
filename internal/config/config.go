// Package config loads the optional .moss.yaml project file the CLI reads
// before it builds an analyzer/interpreter pair: IO buffer sizes, whether to
// pre-seed the five builtins, and default trace/color flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	fileName             = ".moss.yaml"
	defaultReaderBufSize = 4096
	defaultWriterBufSize = 4096
)

// ColorMode controls when diagnostic output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IO holds buffer sizing for the interpreter's IoContext.
type IO struct {
	ReaderBufferSize int `yaml:"reader_buffer_size,omitempty"`
	WriterBufferSize int `yaml:"writer_buffer_size,omitempty"`
}

// Config is the shape of a .moss.yaml project file. Every field is optional;
// Default returns the values the CLI falls back to when no file is found.
type Config struct {
	// Trace turns on --trace by default: moss run pretty-prints the typed
	// program before interpreting it. Individual control ops are not logged.
	Trace bool `yaml:"trace,omitempty"`

	// Verbose records verbose mode; no driver code path reads it.
	Verbose bool `yaml:"verbose,omitempty"`

	// Color picks when diagnostics are colorized: "auto" (TTY-detected,
	// the default), "always", or "never".
	Color ColorMode `yaml:"color,omitempty"`

	// PreseedBuiltins controls whether the five registered builtins (int,
	// str, print_line, read_line, push) are inserted into the analyzer's
	// and interpreter's initial scopes. Defaults to true; an embedder that
	// wants a bare language with no IO-capable builtins can set this false.
	PreseedBuiltins *bool `yaml:"preseed_builtins,omitempty"`

	IO IO `yaml:"io,omitempty"`
}

// Default returns the configuration the CLI uses when no .moss.yaml is
// found, or when a loaded file omits a field.
func Default() Config {
	preseed := true
	return Config{
		Trace:           false,
		Verbose:         false,
		Color:           ColorAuto,
		PreseedBuiltins: &preseed,
		IO: IO{
			ReaderBufferSize: defaultReaderBufSize,
			WriterBufferSize: defaultWriterBufSize,
		},
	}
}

// ShouldPreseedBuiltins reports whether builtins should be installed,
// defaulting to true when the field was never set.
func (c Config) ShouldPreseedBuiltins() bool {
	if c.PreseedBuiltins == nil {
		return true
	}
	return *c.PreseedBuiltins
}

// Load reads and parses a .moss.yaml file at path, filling any field the
// file omits with the value from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes .moss.yaml content from bytes, layering it over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing: %w", err)
	}
	if cfg.IO.ReaderBufferSize <= 0 {
		cfg.IO.ReaderBufferSize = defaultReaderBufSize
	}
	if cfg.IO.WriterBufferSize <= 0 {
		cfg.IO.WriterBufferSize = defaultWriterBufSize
	}
	if cfg.Color == "" {
		cfg.Color = ColorAuto
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: color must be one of auto|always|never, got %q", c.Color)
	}
	return nil
}

// Find walks upward from dir looking for a .moss.yaml file, the same
// nearest-ancestor search a project-local tool config uses. Returns an
// empty path and nil error when none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromDir finds and loads .moss.yaml starting at dir, returning Default
// unchanged when no file exists.
func LoadFromDir(dir string) (Config, error) {
	path, err := Find(dir)
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
