package builtins

import (
	"fmt"
	"strings"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// Cd changes the logical working directory, maintaining PWD and OLDPWD.
func Cd(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the working directory.",
	}

	return cmd.Run("cd", stdio, args, func(args []string) int {
		var target string
		switch {
		case len(args) == 0:
			target = ctx.GetVar("HOME")
			if target == "" {
				fmt.Fprintln(stdio.Err, "cd: HOME not set")
				return 1
			}
		case len(args) > 1:
			fmt.Fprintln(stdio.Err, "cd: too many arguments")
			return 1
		case args[0] == "-":
			target = ctx.GetVar("OLDPWD")
			if target == "" {
				fmt.Fprintln(stdio.Err, "cd: OLDPWD not set")
				return 1
			}
			fmt.Fprintln(stdio.Out, target)
		default:
			target = args[0]
		}

		resolved := normalizePath(ctx.AbsPath(target))
		info, err := ctx.FS.Stat(resolved)
		if err != nil {
			fmt.Fprintf(stdio.Err, "cd: %s: no such file or directory\n", target)
			return 1
		}
		if !info.IsDir() {
			fmt.Fprintf(stdio.Err, "cd: %s: not a directory\n", target)
			return 1
		}

		ctx.Scope.Set("OLDPWD", interp.Value{Word: ctx.Dir})
		ctx.Dir = resolved
		ctx.Scope.Set("PWD", interp.Value{Word: resolved})
		return 0
	})
}

// normalizePath resolves "." and ".." segments without touching the
// filesystem.
func normalizePath(path string) string {
	rooted := strings.HasPrefix(path, "/")
	var stack []string
	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, segment)
		}
	}
	joined := strings.Join(stack, "/")
	if rooted {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}

func init() {
	register("cd", Cd)
}
