package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bjaus/proptext"
)

var errCheckFailed = errors.New("check failed")

func (c *CLI) checkCommand() *cobra.Command {
	var indent int

	cmd := &cobra.Command{
		Use:   "check file...",
		Short: "Parse files strictly and report problems",
		Long: `Check reads each file strictly and prints how many properties it holds,
or the first error with its line number. The format is inferred from the
file extension. Exits non-zero if any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config
			if cmd.Flags().Changed("indent") {
				cfg.Indent = indent
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				n, err := checkFile(path, cfg, logger)
				if err != nil {
					failed++
					printError(out, "%s", path)
					printDetail(out, "%v", err)
					continue
				}
				printSuccess(out, "%s %s", path, styleHighlight.Render(fmt.Sprintf("%d properties", n)))
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errCheckFailed, failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per indentation level")

	return cmd
}

// checkFile counts the properties in path. Lenient mode is never applied.
func checkFile(path string, cfg Config, logger *log.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	format := inferFormat(path)
	if !proptext.CanDecode(format) {
		return 0, fmt.Errorf("%w: cannot read %q", proptext.ErrUnsupportedFormat, format)
	}
	props, err := proptext.Decode(f, format, proptext.WithIndent(cfg.Indent), proptext.WithLogger(logger))
	if err != nil {
		return 0, err
	}
	logger.Debug("checked", "path", path, "format", format, "properties", len(props))
	return len(props), nil
}
