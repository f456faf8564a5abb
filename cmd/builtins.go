package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pjsh-lang/pjsh/builtins"
	"github.com/pjsh-lang/pjsh/core/filters"
)

// builtinsCmd lists everything the shell can run without consulting PATH.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands and value pipeline filters.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range builtins.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		for _, name := range filters.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), "filter:"+name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
