package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.ShouldPreseedBuiltins() {
		t.Errorf("Default should preseed builtins")
	}
	if cfg.Color != ColorAuto {
		t.Errorf("got color %v, want auto", cfg.Color)
	}
	if cfg.IO.ReaderBufferSize != defaultReaderBufSize || cfg.IO.WriterBufferSize != defaultWriterBufSize {
		t.Errorf("got IO %+v, want default buffer sizes", cfg.IO)
	}
}

func TestParseLayersOverDefault(t *testing.T) {
	cfg, err := Parse([]byte("trace: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Trace {
		t.Errorf("expected trace to be true")
	}
	if cfg.IO.ReaderBufferSize != defaultReaderBufSize {
		t.Errorf("omitted io section should keep the default buffer size, got %d", cfg.IO.ReaderBufferSize)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("omitted color should fall back to auto, got %q", cfg.Color)
	}
}

func TestParsePreseedBuiltinsFalse(t *testing.T) {
	cfg, err := Parse([]byte("preseed_builtins: false\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ShouldPreseedBuiltins() {
		t.Errorf("expected preseed_builtins: false to be honored")
	}
}

func TestParseRejectsInvalidColor(t *testing.T) {
	if _, err := Parse([]byte("color: purple\n")); err == nil {
		t.Fatalf("expected validation error for invalid color")
	}
}

func TestParseRejectsMalformedYaml(t *testing.T) {
	if _, err := Parse([]byte("trace: [unterminated\n")); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}

func TestFindWalksUpParentDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	cfgPath := filepath.Join(root, "a", fileName)
	if err := os.WriteFile(cfgPath, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("got %q, want %q", found, cfgPath)
	}
}

func TestFindReturnsEmptyWhenNoneFound(t *testing.T) {
	root := t.TempDir()
	found, err := Find(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("got %q, want empty string", found)
	}
}

func TestLoadFromDirFallsBackToDefault(t *testing.T) {
	root := t.TempDir()
	cfg, err := LoadFromDir(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	if cfg.Trace != want.Trace || cfg.Verbose != want.Verbose || cfg.Color != want.Color ||
		cfg.ShouldPreseedBuiltins() != want.ShouldPreseedBuiltins() || cfg.IO != want.IO {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadFromDirLoadsFoundFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, fileName), []byte("trace: true\ncolor: never\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromDir(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Trace || cfg.Color != ColorNever {
		t.Errorf("got %+v, want trace=true color=never", cfg)
	}
}
