package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/spf13/afero"

	"github.com/pjsh-lang/pjsh/core/ast"
)

// stage is one fully resolved pipeline segment, ready to start. Condition
// stages carry the unexpanded condition words instead of a command.
type stage struct {
	resolved  ResolvedCommand
	argv      []string
	redirects []ast.Redirect
	condition []ast.Word
}

// runPipeline expands and resolves every segment, wires all pipes, applies
// explicit redirections, then starts every stage before waiting on any. The
// pipeline's exit code is the last segment's, reduced modulo 256.
func (ctx *Context) runPipeline(pipeline ast.Pipeline) (int, error) {
	stages := make([]stage, 0, len(pipeline.Segments))
	for _, segment := range pipeline.Segments {
		if segment.Condition != nil {
			stages = append(stages, stage{condition: segment.Condition})
			continue
		}
		argv, err := ctx.ExpandCommand(segment.Command)
		if err != nil {
			return 1, err
		}
		if len(argv) == 0 {
			return 1, fmt.Errorf("command expanded to zero words")
		}
		resolved, err := ctx.Resolve(argv[0])
		if errors.Is(err, ErrNotFound) {
			fmt.Fprintf(ctx.IO.Err, "pjsh: command not found: %s\n", argv[0])
			ctx.LastExit = 127
			return 127, nil
		}
		if err != nil {
			return 1, err
		}
		stages = append(stages, stage{resolved: resolved, argv: argv, redirects: segment.Command.Redirects})
	}

	n := len(stages)
	ios := make([]IO, n)
	owned := make([][]io.Closer, n)
	for i := range ios {
		ios[i] = ctx.IO
	}

	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeStages(owned)
			return 1, err
		}
		ios[i].Out = w
		ios[i+1].In = r
		owned[i] = append(owned[i], w)
		owned[i+1] = append(owned[i+1], r)
	}

	// Explicit redirections are applied after pipe wiring so they override
	// the pipe descriptors.
	for i := range stages {
		for _, redirect := range stages[i].redirects {
			f, err := ctx.openRedirect(redirect)
			if err != nil {
				closeStages(owned)
				return 1, err
			}
			owned[i] = append(owned[i], f)
			switch {
			case redirect.Mode == ast.RedirectRead:
				ios[i].In = f
			case redirect.FD == 2:
				ios[i].Err = f
			case redirect.FD == 1:
				ios[i].Out = f
			default:
				closeStages(owned)
				return 1, fmt.Errorf("unsupported file descriptor %d", redirect.FD)
			}
		}
	}

	if n == 1 && !pipeline.Async {
		code, err := ctx.runStage(stages[0], ios[0], owned[0], false)
		if err != nil {
			return code, err
		}
		code = normalizeExit(code)
		ctx.LastExit = code
		return code, nil
	}

	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := range stages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := ctx.runStage(stages[i], ios[i], owned[i], true)
			if err != nil {
				fmt.Fprintf(ios[i].Err, "pjsh: %v\n", err)
				code = 1
			}
			codes[i] = code
		}(i)
	}

	if pipeline.Async {
		// Reap in the background; an async pipeline reports success.
		go wg.Wait()
		return 0, nil
	}

	wg.Wait()
	code := normalizeExit(codes[n-1])
	ctx.LastExit = code
	return code, nil
}

// runStage runs one stage to completion and closes the descriptors it owns.
// Isolated stages evaluate builtins and functions against a subshell context
// so concurrent stages cannot race on the scope chain.
func (ctx *Context) runStage(st stage, stdio IO, closers []io.Closer, isolate bool) (int, error) {
	defer closeAll(closers)

	target := ctx
	if isolate && st.resolved.Kind != KindExternal {
		target = ctx.subshell(stdio)
	}

	if st.condition != nil {
		ok, err := target.evalCondition(st.condition)
		if err != nil {
			return 1, err
		}
		if ok {
			return 0, nil
		}
		return 1, nil
	}

	switch st.resolved.Kind {
	case KindBuiltin:
		return st.resolved.Builtin(target, stdio, st.argv[1:]), nil

	case KindFunction:
		return target.callFunction(target.Functions[st.argv[0]], st.argv[1:], stdio)

	default:
		cmd := &exec.Cmd{
			Path:   st.resolved.Path,
			Args:   st.argv,
			Env:    ctx.Scope.Environ(),
			Dir:    ctx.Dir,
			Stdin:  stdio.In,
			Stdout: stdio.Out,
			Stderr: stdio.Err,
		}
		err := cmd.Run()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			return 0, nil
		case errors.As(err, &exitErr):
			return exitErr.ExitCode(), nil
		default:
			fmt.Fprintf(stdio.Err, "pjsh: %s: %v\n", st.argv[0], err)
			return 126, nil
		}
	}
}

func (ctx *Context) openRedirect(redirect ast.Redirect) (afero.File, error) {
	target, err := ctx.ExpandWordString(redirect.Target)
	if err != nil {
		return nil, err
	}
	path := ctx.AbsPath(target)
	switch redirect.Mode {
	case ast.RedirectRead:
		return ctx.FS.Open(path)
	case ast.RedirectAppend:
		return ctx.FS.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	default:
		return ctx.FS.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	}
}

func normalizeExit(code int) int {
	return ((code % 256) + 256) % 256
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}

func closeStages(owned [][]io.Closer) {
	for _, closers := range owned {
		closeAll(closers)
	}
}
