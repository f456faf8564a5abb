package interp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pjsh-lang/pjsh/core/ast"
	"github.com/pjsh-lang/pjsh/core/filters"
)

// RunProgram executes a top-level program. Failed statements are reported to
// stderr; interactive sessions continue with the next statement while
// scripts abort.
func (ctx *Context) RunProgram(prog ast.Program) int {
	code := 0
	for _, stmt := range prog.Statements {
		if exitCode, requested := ctx.ExitRequested(); requested {
			return exitCode
		}
		var err error
		code, err = ctx.runStatement(stmt)
		ctx.LastExit = code
		if err != nil {
			fmt.Fprintf(ctx.IO.Err, "pjsh: %v\n", err)
			code = 1
			ctx.LastExit = 1
			if !ctx.Interactive {
				return code
			}
		}
	}
	return code
}

// runProgram executes a nested block, stopping at the first error.
func (ctx *Context) runProgram(prog ast.Program) (int, error) {
	code := 0
	for _, stmt := range prog.Statements {
		if _, requested := ctx.ExitRequested(); requested {
			break
		}
		var err error
		code, err = ctx.runStatement(stmt)
		ctx.LastExit = code
		if err != nil {
			return code, err
		}
	}
	return code, nil
}

func (ctx *Context) runStatement(stmt ast.Statement) (int, error) {
	switch stmt := stmt.(type) {
	case ast.AndOr:
		return ctx.runAndOr(stmt)
	case ast.Assignment:
		return ctx.runAssignment(stmt)
	case ast.CaptureAssignment:
		return ctx.runCaptureAssignment(stmt)
	case ast.Subshell:
		return ctx.runSubshell(stmt)
	case ast.ConditionalChain:
		return ctx.runConditionalChain(stmt)
	case ast.Switch:
		return ctx.runSwitch(stmt)
	case ast.While:
		return ctx.runWhile(stmt)
	case ast.ForIn:
		return ctx.runForIn(stmt)
	case ast.ForInOf:
		return ctx.runForInOf(stmt)
	case ast.Function:
		ctx.Functions[stmt.Name] = stmt
		return 0, nil
	default:
		return 1, fmt.Errorf("cannot execute %T", stmt)
	}
}

func (ctx *Context) runAndOr(chain ast.AndOr) (int, error) {
	code, err := ctx.runPipeline(chain.Pipelines[0])
	if err != nil {
		return code, err
	}
	for i, op := range chain.Operators {
		if (op == ast.OpAnd && code != 0) || (op == ast.OpOr && code == 0) {
			continue
		}
		code, err = ctx.runPipeline(chain.Pipelines[i+1])
		if err != nil {
			return code, err
		}
	}
	return code, nil
}

// runAssignment binds the expansion of the right-hand side. Assignments
// always exit zero.
func (ctx *Context) runAssignment(a ast.Assignment) (int, error) {
	name, err := ctx.ExpandWordString(a.Name)
	if err != nil {
		return 1, err
	}

	if a.List {
		items, err := ctx.ExpandWords(a.Values)
		if err != nil {
			return 1, err
		}
		ctx.Scope.Set(name, filters.ListValue(items))
		return 0, nil
	}

	// A single globbable word may still expand to several strings.
	expanded, err := ctx.expandWord(a.Values[0])
	if err != nil {
		return 1, err
	}
	switch len(expanded) {
	case 1:
		ctx.Scope.Set(name, Value{Word: expanded[0]})
	default:
		ctx.Scope.Set(name, filters.ListValue(expanded))
	}
	return 0, nil
}

// runCaptureAssignment runs the right-hand side with captured stdout and
// binds the output, trimmed of one trailing newline. The pipeline's exit
// code propagates.
func (ctx *Context) runCaptureAssignment(a ast.CaptureAssignment) (int, error) {
	name, err := ctx.ExpandWordString(a.Name)
	if err != nil {
		return 1, err
	}
	out, code, err := ctx.captureAndOr(a.Body)
	if err != nil {
		return code, err
	}
	ctx.Scope.Set(name, Value{Word: strings.TrimSuffix(out, "\n")})
	return code, nil
}

// runSubshell evaluates a program in an isolated child context. Errors and
// exits inside the subshell do not leak into the parent.
func (ctx *Context) runSubshell(sub ast.Subshell) (int, error) {
	child := ctx.subshell(ctx.IO)
	code, err := child.runProgram(sub.Body)
	if exitCode, requested := child.ExitRequested(); requested {
		return exitCode, nil
	}
	if err != nil {
		fmt.Fprintf(ctx.IO.Err, "pjsh: %v\n", err)
		return 1, nil
	}
	return code, nil
}

func (ctx *Context) runConditionalChain(chain ast.ConditionalChain) (int, error) {
	for i, condition := range chain.Conditions {
		code, err := ctx.runAndOr(condition)
		if err != nil {
			return code, err
		}
		if code == 0 {
			return ctx.runProgram(chain.Branches[i])
		}
	}
	if len(chain.Branches) > len(chain.Conditions) {
		return ctx.runProgram(chain.Branches[len(chain.Branches)-1])
	}
	return 0, nil
}

// runSwitch compares the subject against each case's patterns; the first
// match runs. Without a match the default branch, if any, runs.
func (ctx *Context) runSwitch(sw ast.Switch) (int, error) {
	subject, err := ctx.ExpandWordString(sw.Subject)
	if err != nil {
		return 1, err
	}
	for _, arm := range sw.Cases {
		for _, pattern := range arm.Patterns {
			expanded, err := ctx.ExpandWordString(pattern)
			if err != nil {
				return 1, err
			}
			if expanded == subject {
				return ctx.runProgram(arm.Body)
			}
		}
	}
	if sw.Default != nil {
		return ctx.runProgram(*sw.Default)
	}
	return 0, nil
}

func (ctx *Context) runWhile(loop ast.While) (int, error) {
	code := 0
	for {
		if _, requested := ctx.ExitRequested(); requested {
			return code, nil
		}
		conditionCode, err := ctx.runAndOr(loop.Condition)
		if err != nil {
			return code, err
		}
		truthy := conditionCode == 0
		if loop.Until {
			truthy = !truthy
		}
		if !truthy {
			return code, nil
		}
		if code, err = ctx.runProgram(loop.Body); err != nil {
			return code, err
		}
	}
}

func (ctx *Context) runForIn(loop ast.ForIn) (int, error) {
	items, err := ctx.iterableItems(loop.Iterable)
	if err != nil {
		return 1, err
	}
	return ctx.runLoopBody(loop.Variable, items, loop.Body)
}

func (ctx *Context) iterableItems(iterable ast.Iterable) ([]string, error) {
	switch iterable := iterable.(type) {
	case ast.RangeIterable:
		step := 1
		if iterable.Start > iterable.End {
			step = -1
		}
		var items []string
		for i := iterable.Start; ; i += step {
			items = append(items, strconv.Itoa(i))
			if i == iterable.End {
				return items, nil
			}
		}
	case ast.ListIterable:
		return ctx.ExpandWords(iterable.Elements)
	case ast.VariableIterable:
		v, ok := ctx.Scope.Get(iterable.Name)
		if !ok {
			return nil, fmt.Errorf("undefined variable %q", iterable.Name)
		}
		if !v.IsList {
			return nil, fmt.Errorf("cannot iterate over %s; it is not a list", iterable.Name)
		}
		return v.Items, nil
	default:
		return nil, fmt.Errorf("cannot iterate over %T", iterable)
	}
}

// runForInOf iterates a derived view of a single word.
func (ctx *Context) runForInOf(loop ast.ForInOf) (int, error) {
	source, err := ctx.ExpandWordString(loop.Source)
	if err != nil {
		return 1, err
	}

	var items []string
	switch loop.View {
	case ast.ViewChars:
		for _, r := range source {
			items = append(items, string(r))
		}
	case ast.ViewLines:
		text := strings.ReplaceAll(source, "\r\n", "\n")
		if text = strings.TrimSuffix(text, "\n"); text != "" {
			items = strings.Split(text, "\n")
		}
	case ast.ViewWords:
		items = strings.Fields(source)
	}
	return ctx.runLoopBody(loop.Variable, items, loop.Body)
}

// runLoopBody runs body once per item, binding variable in a fresh
// per-iteration scope.
func (ctx *Context) runLoopBody(variable string, items []string, body ast.Program) (int, error) {
	code := 0
	for _, item := range items {
		if _, requested := ctx.ExitRequested(); requested {
			return code, nil
		}
		scope := NewScope(ctx.Scope)
		scope.Declare(variable, Value{Word: item})

		saved := ctx.Scope
		ctx.Scope = scope
		var err error
		code, err = ctx.runProgram(body)
		ctx.Scope = saved
		if err != nil {
			return code, err
		}
	}
	return code, nil
}

// callFunction runs a function body with arguments bound positionally. Extra
// arguments flow into the rest parameter; the body's failure never aborts
// the shell.
func (ctx *Context) callFunction(fn ast.Function, args []string, stdio IO) (int, error) {
	if len(args) < len(fn.Params) {
		return 1, fmt.Errorf("function %s expects at least %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	if fn.RestParam == "" && len(args) > len(fn.Params) {
		return 1, fmt.Errorf("function %s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	scope := NewScope(ctx.Scope)
	for i, param := range fn.Params {
		scope.Declare(param, Value{Word: args[i]})
	}
	if fn.RestParam != "" {
		rest := append([]string(nil), args[len(fn.Params):]...)
		scope.Declare(fn.RestParam, filters.ListValue(rest))
	}
	scope.Declare("0", Value{Word: fn.Name})
	for i, arg := range args {
		scope.Declare(strconv.Itoa(i+1), Value{Word: arg})
	}

	savedScope, savedIO := ctx.Scope, ctx.IO
	ctx.Scope, ctx.IO = scope, stdio
	code, err := ctx.runProgram(fn.Body)
	ctx.Scope, ctx.IO = savedScope, savedIO

	if err != nil {
		fmt.Fprintf(stdio.Err, "pjsh: %v\n", err)
		return 1, nil
	}
	return code, nil
}

// captureProgram runs a program in a subshell with captured stdout.
func (ctx *Context) captureProgram(prog ast.Program) (string, int, error) {
	var buf bytes.Buffer
	child := ctx.subshell(IO{In: ctx.IO.In, Out: &buf, Err: ctx.IO.Err})
	code, err := child.runProgram(prog)
	ctx.LastExit = code
	return buf.String(), code, err
}

// captureAndOr runs a chain in the current context with captured stdout.
func (ctx *Context) captureAndOr(chain ast.AndOr) (string, int, error) {
	var buf bytes.Buffer
	saved := ctx.IO
	ctx.IO = IO{In: saved.In, Out: &buf, Err: saved.Err}
	code, err := ctx.runAndOr(chain)
	ctx.IO = saved
	return buf.String(), code, err
}
