// Package config loads docxgen configuration.
//
// Configuration comes from a single YAML file named by the --config flag
// or the DOCXGEN_CONFIG environment variable. Without either, defaults
// apply. Command-line flags override file values. Unknown keys are
// rejected so a typo never silently falls back to a default.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/pack"
	"github.com/tribal2/docx/internal/logging"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "DOCXGEN_CONFIG"

// Config is the docxgen configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Package PackageConfig `yaml:"package"`
	Store   StoreConfig   `yaml:"store"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// PackageConfig configures package serialization.
type PackageConfig struct {
	// Compression is the deflate level, -2 (huffman only) to 9.
	Compression int `yaml:"compression"`

	// Verify re-parses every XML part before packaging.
	Verify bool `yaml:"verify"`

	// Modified is the RFC 3339 timestamp stamped on every archive entry.
	Modified string `yaml:"modified"`
}

// StoreConfig configures the package store.
type StoreConfig struct {
	// Root is the store directory. ${HOME} and ${VAR:-default} expand.
	Root string `yaml:"root"`
}

// Default returns the default configuration.
func Default() *Config {
	defaults := pack.DefaultOptions()
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Package: PackageConfig{
			Compression: defaults.Compression,
			Verify:      defaults.VerifyParts,
			Modified:    defaults.Modified.Format(time.RFC3339),
		},
		Store: StoreConfig{
			Root: "${HOME}/.cache/docxgen",
		},
	}
}

// Load loads the file at path, or the file named by DOCXGEN_CONFIG when
// path is empty. With neither, it returns the validated defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, cfg.Validate()
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it over
// the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, &errors.ParseError{Format: "yaml", Path: path, Message: err.Error(), Err: err}
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, errors.NewValidation("log.level", err.Error()))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, errors.NewValidation("log.format", err.Error()))
	}
	if c.Package.Compression < -2 || c.Package.Compression > 9 {
		errs = append(errs, errors.NewValidation("package.compression",
			fmt.Sprintf("level %d is outside -2..9", c.Package.Compression)))
	}
	if _, err := c.modified(); err != nil {
		errs = append(errs, errors.NewValidation("package.modified", err.Error()))
	}
	if c.Store.Root == "" {
		errs = append(errs, errors.NewValidation("store.root", "store.root is required"))
	}

	return stderrors.Join(errs...)
}

func (c *Config) modified() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, c.Package.Modified)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < 1980 {
		return time.Time{}, fmt.Errorf("%s is before 1980, the earliest zip timestamp", c.Package.Modified)
	}
	return t.UTC(), nil
}

// Logging returns the parsed log level and format.
func (c *Config) Logging() (logging.Level, logging.Format, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, 0, errors.NewValidation("log.level", err.Error())
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return 0, 0, errors.NewValidation("log.format", err.Error())
	}
	return level, format, nil
}

// PackOptions converts the package section into serializer options.
func (c *Config) PackOptions() (pack.Options, error) {
	modified, err := c.modified()
	if err != nil {
		return pack.Options{}, errors.NewValidation("package.modified", err.Error())
	}
	opts := pack.DefaultOptions()
	opts.Compression = c.Package.Compression
	opts.VerifyParts = c.Package.Verify
	opts.Modified = modified
	return opts, nil
}

// Overrides carries command-line values that replace file values. Empty
// fields leave the file value in place.
type Overrides struct {
	LogLevel  string
	LogFormat string
	StoreRoot string
}

// Apply replaces file values with the non-empty overrides and
// revalidates.
func (c *Config) Apply(o Overrides) error {
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.StoreRoot != "" {
		c.Store.Root = o.StoreRoot
		c.expandVariables()
	}
	return c.Validate()
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	if root := expandVars(c.Store.Root); root != "" {
		c.Store.Root = filepath.Clean(root)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
