// Package cmd holds the command line interface of pjsh.
package cmd

import (
	"os"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pjsh-lang/pjsh/core/config"
	"github.com/pjsh-lang/pjsh/core/record"
	"github.com/pjsh-lang/pjsh/core/shell"
)

var (
	commandString string
	noRC          bool
	recordPath    string
)

func loadConfig() *config.Configuration {
	cfg, err := config.Load(afero.NewOsFs(), os.Getenv("HOME"))
	if err != nil {
		rootCmd.PrintErrf("pjsh: %v\n", err)
		return config.Default()
	}
	return cfg
}

// rootCmd runs the shell when called without any subcommands.
// It is assigned in init() to avoid an initialization cycle with loadConfig.
var rootCmd *cobra.Command

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pjsh [script]",
		Short: "A non-POSIX shell with a small, consistent syntax.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			opts := shell.Options{
				Environ: os.Environ(),
				NoRC:    noRC,
				Config:  loadConfig(),
			}

			var recorder *record.Recorder
			if recordPath != "" {
				fd, err := os.Create(recordPath)
				if err != nil {
					return err
				}
				defer fd.Close()

				recorder = record.NewRecorder(fd)
				opts.Stdin = recorder.Input(os.Stdin)
				opts.Stdout = recorder.Output(os.Stdout)
				opts.Stderr = recorder.Output(os.Stderr)
			}

			session := shell.New(opts)

			var code int
			switch {
			case commandString != "":
				code = session.RunCommand(commandString)
			case len(args) == 1:
				code = session.RunScript(args[0])
			case readline.DefaultIsTerminal():
				code = session.RunInteractive()
			default:
				code = session.RunStdin()
			}
			if recorder != nil {
				if err := recorder.Err(); err != nil {
					cmd.PrintErrf("pjsh: recording failed: %v\n", err)
				}
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

// Execute runs the root command. It is called once, by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd = newRootCmd()
	rootCmd.Flags().StringVarP(&commandString, "command", "c", "", "run this string instead of reading a script")
	rootCmd.Flags().BoolVar(&noRC, "norc", false, "skip the init scripts")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "record the session to this asciicast file")
}
