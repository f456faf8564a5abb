package interp

import (
	"fmt"
	"strings"

	"github.com/pjsh-lang/pjsh/core/ast"
)

// evalCondition expands the words of a compact condition and evaluates them.
// Supported forms, after expansion:
//
//	[ a == b ]         equal ("=" is a synonym)
//	[ a != b ]         not equal
//	[ -z s ]           s is empty
//	[ -n s ] / [ s ]   s is not empty
//	[ -e p ]           p exists (also "is-path")
//	[ -f p ]           p is a regular file (also "is-file")
//	[ -d p ]           p is a directory (also "is-dir")
//
// A leading "!" inverts the rest. Any other shape is an error.
func (ctx *Context) evalCondition(words []ast.Word) (bool, error) {
	args := make([]string, 0, len(words))
	for _, w := range words {
		arg, err := ctx.ExpandWordString(w)
		if err != nil {
			return false, err
		}
		args = append(args, arg)
	}
	return ctx.evalConditionArgs(args)
}

func (ctx *Context) evalConditionArgs(args []string) (bool, error) {
	if len(args) > 0 && args[0] == "!" {
		ok, err := ctx.evalConditionArgs(args[1:])
		return !ok, err
	}

	switch len(args) {
	case 1:
		return args[0] != "", nil

	case 2:
		switch args[0] {
		case "-z":
			return args[1] == "", nil
		case "-n":
			return args[1] != "", nil
		case "-e", "is-path":
			_, err := ctx.FS.Stat(ctx.AbsPath(args[1]))
			return err == nil, nil
		case "-f", "is-file":
			info, err := ctx.FS.Stat(ctx.AbsPath(args[1]))
			return err == nil && info.Mode().IsRegular(), nil
		case "-d", "is-dir":
			info, err := ctx.FS.Stat(ctx.AbsPath(args[1]))
			return err == nil && info.IsDir(), nil
		}

	case 3:
		switch args[1] {
		case "==", "=":
			return args[0] == args[2], nil
		case "!=":
			return args[0] != args[2], nil
		}
	}

	return false, fmt.Errorf("invalid condition: %s", strings.Join(args, " "))
}
