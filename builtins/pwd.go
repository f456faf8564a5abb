package builtins

import (
	"fmt"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Pwd prints the logical working directory.
func Pwd(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the working directory.",
	}

	return cmd.Run("pwd", stdio, args, func(args []string) int {
		dir := ctx.Dir
		if dir == "" {
			dir = ctx.GetVar("PWD")
		}
		fmt.Fprintln(stdio.Out, dir)
		return 0
	})
}

func init() {
	register("pwd", Pwd)
}
