package cli

import (
	"github.com/spf13/cobra"

	"github.com/bjaus/proptext"
)

func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, f := range proptext.Formats() {
				mode := "write"
				if proptext.CanDecode(f) {
					mode = "read, write"
				}
				printKeyValue(out, f.String(), mode)
			}
		},
	}
}
