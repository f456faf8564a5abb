// Package interp evaluates parsed programs: it expands words, maintains the
// variable scope chain, resolves command names, and orchestrates pipelines.
package interp

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/pjsh-lang/pjsh/core/ast"
)

// IO is the stdio triple a command runs with.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// BuiltinFunc runs a builtin command and returns its exit code.
type BuiltinFunc func(ctx *Context, stdio IO, args []string) int

// Context is the mutable state of one shell evaluation: the scope chain,
// aliases, functions, builtin registry, and stdio. Subshells evaluate under a
// child context holding a snapshot of this one.
type Context struct {
	Scope     *Scope
	Aliases   map[string]string
	Functions map[string]ast.Function
	Builtins  map[string]BuiltinFunc

	// FS backs every file access the interpreter makes: globbing,
	// redirection targets, process substitution, and script sourcing.
	FS afero.Fs

	// Dir is the logical working directory, used to resolve relative paths.
	Dir string

	// IO is the default stdio for commands outside any pipe or redirect.
	IO IO

	// Interactive softens error handling: a failed statement does not abort
	// the rest of the input.
	Interactive bool

	// LastExit is the exit code of the most recent pipeline, readable as $?.
	LastExit int

	exitRequested bool
	exitCode      int
}

// NewContext returns a context with an empty global scope.
func NewContext(fs afero.Fs, stdio IO) *Context {
	return &Context{
		Scope:     NewScope(nil),
		Aliases:   make(map[string]string),
		Functions: make(map[string]ast.Function),
		Builtins:  make(map[string]BuiltinFunc),
		FS:        fs,
		IO:        stdio,
	}
}

// PopulateEnviron seeds the global scope from "name=value" pairs, marking
// each name exported.
func (ctx *Context) PopulateEnviron(environ []string) {
	for _, pair := range environ {
		name, value, ok := cut(pair, "=")
		if !ok {
			continue
		}
		ctx.Scope.Declare(name, Value{Word: value})
		ctx.Scope.Export(name)
	}
}

// GetVar resolves a variable reference to its display string. Unset names
// resolve to the empty string; "?" resolves to the last exit code.
func (ctx *Context) GetVar(name string) string {
	v, ok := ctx.lookupVar(name)
	if !ok {
		return ""
	}
	return v.String()
}

func (ctx *Context) lookupVar(name string) (Value, bool) {
	if name == "?" {
		return Value{Word: strconv.Itoa(ctx.LastExit)}, true
	}
	return ctx.Scope.Get(name)
}

// RequestExit asks the session to terminate once the current statement
// finishes.
func (ctx *Context) RequestExit(code int) {
	ctx.exitRequested = true
	ctx.exitCode = code
}

// ExitRequested reports whether an exit builtin ran, and with which code.
func (ctx *Context) ExitRequested() (int, bool) {
	return ctx.exitCode, ctx.exitRequested
}

// subshell returns a child context over a snapshot of the scope chain.
// Aliases and functions are copied; mutations inside the subshell do not leak
// out.
func (ctx *Context) subshell(stdio IO) *Context {
	child := &Context{
		Scope:       ctx.Scope.Snapshot(),
		Aliases:     make(map[string]string, len(ctx.Aliases)),
		Functions:   make(map[string]ast.Function, len(ctx.Functions)),
		Builtins:    ctx.Builtins,
		FS:          ctx.FS,
		Dir:         ctx.Dir,
		IO:          stdio,
		Interactive: ctx.Interactive,
		LastExit:    ctx.LastExit,
	}
	for name, value := range ctx.Aliases {
		child.Aliases[name] = value
	}
	for name, fn := range ctx.Functions {
		child.Functions[name] = fn
	}
	return child
}

// AbsPath resolves path against the logical working directory.
func (ctx *Context) AbsPath(path string) string {
	if strings.HasPrefix(path, "/") || ctx.Dir == "" {
		return path
	}
	return strings.TrimSuffix(ctx.Dir, "/") + "/" + path
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
