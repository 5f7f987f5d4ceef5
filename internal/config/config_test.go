package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docxgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Package.Compression != flate.DefaultCompression {
		t.Errorf("Compression = %d, want %d", cfg.Package.Compression, flate.DefaultCompression)
	}
	if !cfg.Package.Verify {
		t.Error("Verify = false, want true")
	}
	if cfg.Package.Modified != "1980-01-01T00:00:00Z" {
		t.Errorf("Modified = %q, want 1980-01-01T00:00:00Z", cfg.Package.Modified)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("DOCXGEN_TEST_ROOT", "/srv/docs")
	path := writeConfig(t, `
log:
  level: debug
  format: json
package:
  compression: 9
  verify: false
  modified: "2024-02-03T04:05:06Z"
store:
  root: ${DOCXGEN_TEST_ROOT}/store
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Store.Root != "/srv/docs/store" {
		t.Errorf("Store.Root = %q, want /srv/docs/store", cfg.Store.Root)
	}

	opts, err := cfg.PackOptions()
	if err != nil {
		t.Fatalf("PackOptions() error = %v", err)
	}
	if opts.Compression != 9 || opts.VerifyParts {
		t.Errorf("PackOptions() = %+v", opts)
	}
	want := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	if !opts.Modified.Equal(want) {
		t.Errorf("Modified = %v, want %v", opts.Modified, want)
	}

	level, format, err := cfg.Logging()
	if err != nil {
		t.Fatalf("Logging() error = %v", err)
	}
	if level != logging.LevelDebug || format != logging.FormatJSON {
		t.Errorf("Logging() = %v, %v", level, format)
	}
}

func TestLoadFilePartial(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "log:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Format = %q, want default text", cfg.Log.Format)
	}
	if !cfg.Package.Verify {
		t.Error("Verify = false, want default true")
	}
}

func TestLoadFileEmpty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown key", "log:\n  colour: red\n", ""},
		{"not yaml", "log: [\n", ""},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"compression too high", "package:\n  compression: 12\n", "package.compression"},
		{"bad timestamp", "package:\n  modified: yesterday\n", "package.modified"},
		{"before zip epoch", "package:\n  modified: \"1970-01-01T00:00:00Z\"\n", "package.modified"},
		{"empty root", "store:\n  root: \"\"\n", "store.root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Fatalf("LoadFile() error = %v, want invalid input", err)
			}
			if tt.field == "" {
				var perr *errors.ParseError
				if !errors.As(err, &perr) {
					t.Errorf("LoadFile() error = %v, want ParseError", err)
				}
				return
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("LoadFile() error = %v, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Package.Compression = 42
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, field := range []string{"log.level", "package.compression"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error = %v, want mention of %s", err, field)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("LoadFile() error = %v, want IOError", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")
	t.Setenv(EnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, want error", cfg.Log.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Root != "/home/tester/.cache/docxgen" {
		t.Errorf("Store.Root = %q, want /home/tester/.cache/docxgen", cfg.Store.Root)
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	if err := cfg.Apply(Overrides{LogLevel: "debug", StoreRoot: "/tmp/store/"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Log.Format)
	}
	if cfg.Store.Root != "/tmp/store" {
		t.Errorf("Store.Root = %q, want /tmp/store", cfg.Store.Root)
	}

	if err := cfg.Apply(Overrides{LogFormat: "yaml"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Apply(bad format) error = %v, want invalid input", err)
	}
}
