package interp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a command name resolves to nothing. Pipelines
// report it as exit code 127.
var ErrNotFound = errors.New("command not found")

// CommandKind describes what a name resolved to.
type CommandKind int

const (
	// KindBuiltin is a builtin command.
	KindBuiltin CommandKind = iota
	// KindFunction is a shell function.
	KindFunction
	// KindExternal is a program on disk.
	KindExternal
)

// ResolvedCommand is the outcome of resolving a command name.
type ResolvedCommand struct {
	Kind CommandKind

	// Builtin is set for builtin commands.
	Builtin BuiltinFunc

	// Path is the program path for external commands.
	Path string
}

// Resolve maps a command name to something runnable. Builtins shadow
// functions, which shadow external programs.
func (ctx *Context) Resolve(name string) (ResolvedCommand, error) {
	if builtin, ok := ctx.Builtins[name]; ok {
		return ResolvedCommand{Kind: KindBuiltin, Builtin: builtin}, nil
	}
	if _, ok := ctx.Functions[name]; ok {
		return ResolvedCommand{Kind: KindFunction}, nil
	}
	path, err := ctx.LookPath(name)
	if err != nil {
		return ResolvedCommand{}, err
	}
	return ResolvedCommand{Kind: KindExternal, Path: path}, nil
}

// LookPath finds the program file for name. A name containing a path
// separator is used directly; otherwise each $PATH directory is searched,
// trying the bare name and then each $PATHEXT suffix.
func (ctx *Context) LookPath(name string) (string, error) {
	if strings.Contains(name, "/") {
		full := ctx.AbsPath(name)
		if ctx.isRunnable(full) {
			return full, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var exts []string
	if pathext := ctx.GetVar("PATHEXT"); pathext != "" {
		exts = strings.Split(pathext, ";")
	}

	for _, dir := range strings.Split(ctx.GetVar("PATH"), ":") {
		if dir == "" {
			continue
		}
		candidate := strings.TrimSuffix(dir, "/") + "/" + name
		if ctx.isRunnable(candidate) {
			return candidate, nil
		}
		for _, ext := range exts {
			if ext == "" {
				continue
			}
			if ctx.isRunnable(candidate + ext) {
				return candidate + ext, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// isRunnable reports whether path names a regular file. Execute bits are not
// consulted; backing filesystems do not portably carry them.
func (ctx *Context) isRunnable(path string) bool {
	info, err := ctx.FS.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
