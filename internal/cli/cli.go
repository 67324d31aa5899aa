// Package cli implements the proptext command-line interface.
//
// # Commands
//
//   - convert: Read properties in one format and write them in another
//   - check: Strictly parse files and report property counts or the first error
//   - formats: List the supported formats
//
// # Configuration
//
// Defaults come from a TOML file (--config, or
// $XDG_CONFIG_HOME/proptext/config.toml when present). Flags set on the
// command line win over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes every line skipped in lenient mode. The logger travels in the
// command context.
package cli

import (
	"errors"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "proptext"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// version is set at build time via -ldflags.
var version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     Config
}

// New creates a CLI whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Convert flat dot-path properties to indented text and back",
		Long:         `proptext turns flat "a.b.0.c=value" properties into indented, YAML-like text and parses that text back. It also converts between .properties, YAML, env files, and tables.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.formatsCommand())

	return root
}

// loadConfig reads the explicit config file, or the default one if it
// exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return nil
		}
		path = p
	}
	cfg, err := loadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.config = cfg
	return nil
}
