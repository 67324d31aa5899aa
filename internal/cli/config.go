package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bjaus/proptext"
)

// Config holds defaults for every command. It is read from a TOML file and
// overridden by flags the user sets explicitly.
type Config struct {
	Indent     int    `toml:"indent"`
	Lenient    bool   `toml:"lenient"`
	Validate   bool   `toml:"validate"`
	ListLength bool   `toml:"list_length"`
	Sort       bool   `toml:"sort"`
	From       string `toml:"from"`
	To         string `toml:"to"`
	Border     string `toml:"border"`
	Wrap       int    `toml:"wrap"`
}

func defaultConfig() Config {
	return Config{Indent: 2, Border: "rounded"}
}

var borders = map[string]proptext.BorderStyle{
	"rounded": proptext.BorderRounded,
	"none":    proptext.BorderNone,
	"ascii":   proptext.BorderASCII,
	"heavy":   proptext.BorderHeavy,
	"double":  proptext.BorderDouble,
}

// loadConfig reads path on top of the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// defaultConfigPath returns $XDG_CONFIG_HOME/proptext/config.toml, falling
// back to ~/.config.
func defaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func (c Config) validate() error {
	var errs []error
	if c.Indent < 1 {
		errs = append(errs, fmt.Errorf("indent must be at least 1, got %d", c.Indent))
	}
	if c.Wrap < 0 {
		errs = append(errs, fmt.Errorf("wrap must not be negative, got %d", c.Wrap))
	}
	if c.From != "" {
		f, err := proptext.ParseFormat(c.From)
		if err != nil {
			errs = append(errs, fmt.Errorf("from: %w", err))
		} else if !proptext.CanDecode(f) {
			errs = append(errs, fmt.Errorf("from: %w: %q is write-only", proptext.ErrUnsupportedFormat, f))
		}
	}
	if c.To != "" {
		if _, err := proptext.ParseFormat(c.To); err != nil {
			errs = append(errs, fmt.Errorf("to: %w", err))
		}
	}
	if _, ok := borders[c.Border]; !ok {
		errs = append(errs, fmt.Errorf("unknown border %q", c.Border))
	}
	return errors.Join(errs...)
}

// options translates the config into library options. The config must be
// valid.
func (c Config) options() []proptext.Option {
	opts := []proptext.Option{
		proptext.WithIndent(c.Indent),
		proptext.WithBorder(borders[c.Border]),
		proptext.WithWrap(c.Wrap),
	}
	if c.Lenient {
		opts = append(opts, proptext.WithLenient())
	}
	if c.Validate {
		opts = append(opts, proptext.WithValidation())
	}
	if c.ListLength {
		opts = append(opts, proptext.WithListLength())
	}
	return opts
}

var extensions = map[string]proptext.Format{
	".properties": proptext.Properties,
	".yaml":       proptext.YAML,
	".yml":        proptext.YAML,
	".env":        proptext.ENV,
	".md":         proptext.Markdown,
	".csv":        proptext.CSV,
	".tsv":        proptext.TSV,
}

// inferFormat picks a format from the file extension, defaulting to text.
func inferFormat(path string) proptext.Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return proptext.Text
}
