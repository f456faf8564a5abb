package builtins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Alias defines or lists command aliases.
func Alias(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "alias [NAME [= VALUE...]]",
		Short: "Define or display command aliases.",
	}

	return cmd.Run("alias", stdio, args, func(args []string) int {
		switch {
		case len(args) == 0:
			names := make([]string, 0, len(ctx.Aliases))
			for name := range ctx.Aliases {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(stdio.Out, "alias %s = %q\n", name, ctx.Aliases[name])
			}
			return 0

		case len(args) == 1:
			value, ok := ctx.Aliases[args[0]]
			if !ok {
				fmt.Fprintf(stdio.Err, "alias: %s: not found\n", args[0])
				return 1
			}
			fmt.Fprintf(stdio.Out, "alias %s = %q\n", args[0], value)
			return 0

		case args[1] == "=":
			ctx.Aliases[args[0]] = strings.Join(args[2:], " ")
			return 0

		default:
			fmt.Fprintf(stdio.Err, "alias: expected NAME = VALUE\n")
			return 1
		}
	})
}

// Unalias removes command aliases.
func Unalias(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "unalias NAME...",
		Short: "Remove command aliases.",
	}

	opt := cmd.Flags()
	all := opt.Bool('a', "remove all aliases")

	return cmd.Run("unalias", stdio, args, func(args []string) int {
		if *all {
			ctx.Aliases = make(map[string]string)
			return 0
		}
		code := 0
		for _, name := range args {
			if _, ok := ctx.Aliases[name]; !ok {
				fmt.Fprintf(stdio.Err, "unalias: %s: not found\n", name)
				code = 1
				continue
			}
			delete(ctx.Aliases, name)
		}
		return code
	})
}

func init() {
	register("alias", Alias)
	register("unalias", Unalias)
}
