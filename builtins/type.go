package builtins

import (
	"fmt"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Type reports how each name would be resolved: alias, builtin, function, or
// external program.
func Type(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "type NAME...",
		Short: "Describe how a command name resolves.",
	}

	return cmd.Run("type", stdio, args, func(args []string) int {
		code := 0
		for _, name := range args {
			switch {
			case ctx.Aliases[name] != "":
				fmt.Fprintf(stdio.Out, "%s is an alias for %q\n", name, ctx.Aliases[name])
			case ctx.Builtins[name] != nil:
				fmt.Fprintf(stdio.Out, "%s is a shell builtin\n", name)
			default:
				if _, ok := ctx.Functions[name]; ok {
					fmt.Fprintf(stdio.Out, "%s is a function\n", name)
					continue
				}
				path, err := ctx.LookPath(name)
				if err != nil {
					fmt.Fprintf(stdio.Err, "type: %s: not found\n", name)
					code = 1
					continue
				}
				fmt.Fprintf(stdio.Out, "%s is %s\n", name, path)
			}
		}
		return code
	})
}

// Which locates the program file a name resolves to on $PATH.
func Which(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "which NAME...",
		Short: "Locate a command on the search path.",
	}

	return cmd.Run("which", stdio, args, func(args []string) int {
		code := 0
		for _, name := range args {
			path, err := ctx.LookPath(name)
			if err != nil {
				code = 1
				continue
			}
			fmt.Fprintln(stdio.Out, path)
		}
		return code
	})
}

func init() {
	register("type", Type)
	register("which", Which)
}
