package builtins

import (
	"fmt"
	"strings"

	"github.com/pjsh-lang/pjsh/core/interp"
)

var unescapeReplacer = strings.NewReplacer(
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\\`, `\`,
	`\a`, "\a",
	`\e`, "\x1b",
)

// Echo displays its arguments separated by spaces.
func Echo(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "echo [-en] [ARG]...",
		Short: "Display a line of text.",
	}

	opt := cmd.Flags()
	noNewline := opt.Bool('n', "do not output the trailing newline")
	escapes := opt.Bool('e', "interpret backslash escapes")

	return cmd.Run("echo", stdio, args, func(args []string) int {
		for i, arg := range args {
			if i > 0 {
				fmt.Fprint(stdio.Out, " ")
			}
			if *escapes {
				arg = unescapeReplacer.Replace(arg)
			}
			fmt.Fprint(stdio.Out, arg)
		}
		if !*noNewline {
			fmt.Fprintln(stdio.Out)
		}
		return 0
	})
}

func init() {
	register("echo", Echo)
}
