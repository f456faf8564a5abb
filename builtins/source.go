package builtins

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/pjsh-lang/pjsh/core/interp"
	"github.com/pjsh-lang/pjsh/core/parse"
)

// Source reads a script and evaluates it in the current context, so its
// assignments, aliases, and functions persist. Also registered as ".".
func Source(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "source FILE [ARG]...",
		Short: "Evaluate a script in the current shell context.",
	}

	return cmd.Run("source", stdio, args, func(args []string) int {
		if len(args) == 0 {
			fmt.Fprintln(stdio.Err, "source: expected a file")
			return 1
		}
		src, err := afero.ReadFile(ctx.FS, ctx.AbsPath(args[0]))
		if err != nil {
			fmt.Fprintf(stdio.Err, "source: %s: no such file\n", args[0])
			return 1
		}
		prog, err := parse.Parse(string(src))
		if err != nil {
			fmt.Fprintf(stdio.Err, "source: %s: %v\n", args[0], err)
			return 1
		}
		return ctx.RunProgram(*prog)
	})
}

func init() {
	register("source", Source)
	register(".", Source)
}
