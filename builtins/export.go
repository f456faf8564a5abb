package builtins

import (
	"fmt"
	"strings"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Export marks variables for inclusion in spawned command environments.
// "NAME=value" forms assign before exporting.
func Export(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "export [NAME[=VALUE]]...",
		Short: "Mark variables for export to spawned commands.",
	}

	return cmd.Run("export", stdio, args, func(args []string) int {
		if len(args) == 0 {
			for _, pair := range ctx.Scope.Environ() {
				fmt.Fprintf(stdio.Out, "export %s\n", pair)
			}
			return 0
		}
		for _, arg := range args {
			name := arg
			if i := strings.Index(arg, "="); i >= 0 {
				name = arg[:i]
				ctx.Scope.Set(name, interp.Value{Word: arg[i+1:]})
			}
			if name == "" {
				fmt.Fprintf(stdio.Err, "export: %s: invalid name\n", arg)
				return 1
			}
			ctx.Scope.Export(name)
		}
		return 0
	})
}

// Unset removes a variable binding, or a function when no variable matches.
func Unset(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "unset NAME...",
		Short: "Remove variables or functions.",
	}

	opt := cmd.Flags()
	funcsOnly := opt.Bool('f', "only remove functions")

	return cmd.Run("unset", stdio, args, func(args []string) int {
		for _, name := range args {
			if *funcsOnly {
				delete(ctx.Functions, name)
				continue
			}
			if _, ok := ctx.Scope.Get(name); ok {
				ctx.Scope.Unset(name)
				continue
			}
			delete(ctx.Functions, name)
		}
		return 0
	})
}

func init() {
	register("export", Export)
	register("unset", Unset)
}
