package builtins

import (
	"fmt"
	"strconv"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Exit ends the session with an optional exit code, reduced modulo 256.
func Exit(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "exit [CODE]",
		Short: "Exit the shell.",
	}

	return cmd.Run("exit", stdio, args, func(args []string) int {
		code := ctx.LastExit
		switch {
		case len(args) > 1:
			fmt.Fprintln(stdio.Err, "exit: too many arguments")
			return 1
		case len(args) == 1:
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(stdio.Err, "exit: %s: numeric argument required\n", args[0])
				parsed = 2
			}
			code = parsed
		}
		code = ((code % 256) + 256) % 256
		ctx.RequestExit(code)
		return code
	})
}

// True succeeds.
func True(ctx *interp.Context, stdio interp.IO, args []string) int {
	return 0
}

// False fails.
func False(ctx *interp.Context, stdio interp.IO, args []string) int {
	return 1
}

func init() {
	register("exit", Exit)
	register("true", True)
	register("false", False)
}
