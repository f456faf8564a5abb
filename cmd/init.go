package cmd

import (
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pjsh-lang/pjsh/core/config"
)

// initCmd creates the configuration directory and init scripts.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the pjsh configuration directory under $HOME.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(afero.NewOsFs(), os.Getenv("HOME"), logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
