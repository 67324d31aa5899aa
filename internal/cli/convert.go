package cli

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjaus/proptext"
)

type convertFlags struct {
	from, to, output string
	border           string
	indent, wrap     int
	sort             bool
	validate         bool
	lenient          bool
	listLength       bool
}

func (c *CLI) convertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert properties between formats",
		Long: `Convert reads properties from a file (or stdin) and writes them in another format.

The input format is inferred from the file extension when --from is not set:
.properties, .yaml, .yml, .csv and .tsv are recognized, anything else is read
as text.`,
		Example: `  proptext convert pod.properties
  proptext convert --from yaml --to properties < pod.yaml
  proptext convert pod.txt --to table --border ascii --wrap 40`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config
			flags.apply(cmd, &cfg)
			if err := cfg.validate(); err != nil {
				return err
			}
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runConvert(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), input, flags.output, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "input format (default: from the file extension)")
	cmd.Flags().StringVar(&flags.to, "to", "", "output format (default: from --output, else text)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.sort, "sort", false, "sort properties before writing")
	cmd.Flags().BoolVar(&flags.validate, "validate", false, "reject unordered input when writing text")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "skip malformed text lines")
	cmd.Flags().BoolVar(&flags.listLength, "list-length", false, "add a <list>.length count when reading text, drop it when writing text")
	cmd.Flags().IntVar(&flags.indent, "indent", 2, "spaces per indentation level")
	cmd.Flags().StringVar(&flags.border, "border", "rounded", "table border: rounded, none, ascii, heavy, double")
	cmd.Flags().IntVar(&flags.wrap, "wrap", 0, "wrap table values wider than this")

	return cmd
}

// apply copies the flags the user set onto cfg.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *Config) {
	fl := cmd.Flags()
	if fl.Changed("from") {
		cfg.From = f.from
	}
	if fl.Changed("to") {
		cfg.To = f.to
	}
	if fl.Changed("sort") {
		cfg.Sort = f.sort
	}
	if fl.Changed("validate") {
		cfg.Validate = f.validate
	}
	if fl.Changed("lenient") {
		cfg.Lenient = f.lenient
	}
	if fl.Changed("list-length") {
		cfg.ListLength = f.listLength
	}
	if fl.Changed("indent") {
		cfg.Indent = f.indent
	}
	if fl.Changed("border") {
		cfg.Border = f.border
	}
	if fl.Changed("wrap") {
		cfg.Wrap = f.wrap
	}
}

func (c *CLI) runConvert(ctx context.Context, stdin io.Reader, stdout io.Writer, input, output string, cfg Config) (err error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	from := proptext.Format(cfg.From)
	if from == "" {
		from = inferFormat(input)
	}
	to := proptext.Format(cfg.To)
	if to == "" {
		to = proptext.Text
		if output != "" {
			to = inferFormat(output)
		}
	}
	if !proptext.CanDecode(from) {
		return fmt.Errorf("%w: cannot read %q", proptext.ErrUnsupportedFormat, from)
	}
	opts := append(cfg.options(), proptext.WithLogger(logger))

	in := stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer closeInto(f, &err)
		out = f
	}

	logger.Debug("converting", "input", displayName(input), "from", from, "to", to)

	var n int
	if from == proptext.Text && !cfg.Sort {
		n, err = streamConvert(out, to, proptext.NewReader(in, opts...), opts)
	} else {
		n, err = collectConvert(in, out, from, to, cfg.Sort, opts)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d properties", n))
	return nil
}

// streamConvert pipes text straight into the writer so large inputs are
// never held in memory.
func streamConvert(out io.Writer, to proptext.Format, r *proptext.Reader, opts []proptext.Option) (int, error) {
	var (
		n       int
		readErr error
	)
	seq := func(yield func(proptext.Property) bool) {
		for p, err := range r.All() {
			if err != nil {
				readErr = err
				return
			}
			n++
			if !yield(p) {
				return
			}
		}
	}
	if err := proptext.WriteIter(out, to, iter.Seq[proptext.Property](seq), opts...); err != nil {
		return n, err
	}
	return n, readErr
}

func collectConvert(in io.Reader, out io.Writer, from, to proptext.Format, sorted bool, opts []proptext.Option) (int, error) {
	props, err := proptext.Decode(in, from, opts...)
	if err != nil {
		return 0, err
	}
	if sorted {
		if err := proptext.Sort(props); err != nil {
			return 0, err
		}
	}
	return len(props), proptext.Write(out, to, props, opts...)
}

// closeInto closes c and reports its error through errp unless an earlier
// error is already set there.
func closeInto(c io.Closer, errp *error) {
	if err := c.Close(); err != nil && *errp == nil {
		*errp = err
	}
}

func displayName(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
