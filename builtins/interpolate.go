package builtins

import (
	"fmt"

	"github.com/pjsh-lang/pjsh/core/ast"
	"github.com/pjsh-lang/pjsh/core/interp"
	"github.com/pjsh-lang/pjsh/core/parse"
)

// Interpolate evaluates each argument as interpolation content, expanding
// embedded variables, escapes, subshells, and value pipelines.
func Interpolate(ctx *interp.Context, stdio interp.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "interpolate [TEXT]...",
		Short: "Interpolate text as if it were written between backticks.",
	}

	return cmd.Run("interpolate", stdio, args, func(args []string) int {
		for _, arg := range args {
			word, err := parseInterpolationWord(arg)
			if err != nil {
				fmt.Fprintf(stdio.Err, "interpolate: %v\n", err)
				return 1
			}
			expanded, err := ctx.ExpandWordString(word)
			if err != nil {
				fmt.Fprintf(stdio.Err, "interpolate: %v\n", err)
				return 1
			}
			fmt.Fprintln(stdio.Out, expanded)
		}
		return 0
	})
}

// parseInterpolationWord wraps text in backticks and parses the resulting
// interpolation word.
func parseInterpolationWord(text string) (ast.Word, error) {
	prog, err := parse.Parse("`" + text + "`")
	if err != nil {
		return nil, err
	}
	if len(prog.Statements) != 1 {
		return nil, fmt.Errorf("%q did not form a single word", text)
	}
	chain, ok := prog.Statements[0].(ast.AndOr)
	if !ok || len(chain.Pipelines) != 1 || len(chain.Pipelines[0].Segments) != 1 {
		return nil, fmt.Errorf("%q did not form a single word", text)
	}
	cmd := chain.Pipelines[0].Segments[0].Command
	if len(cmd.Args) != 1 {
		return nil, fmt.Errorf("%q did not form a single word", text)
	}
	return cmd.Args[0], nil
}

func init() {
	register("interpolate", Interpolate)
}
