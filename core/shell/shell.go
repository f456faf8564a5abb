// Package shell ties the interpreter to its surroundings: startup scripts,
// the interactive line editor, and script or string execution.
package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/pjsh-lang/pjsh/builtins"
	"github.com/pjsh-lang/pjsh/core/ast"
	"github.com/pjsh-lang/pjsh/core/config"
	"github.com/pjsh-lang/pjsh/core/interp"
	"github.com/pjsh-lang/pjsh/core/parse"
)

const (
	EnvHome   = "HOME"
	EnvPWD    = "PWD"
	EnvPrompt = "PS1"
	EnvPS2    = "PS2"
)

var errorColor = color.New(color.FgRed)

// Options configures a Session. Zero fields fall back to the host
// environment.
type Options struct {
	FS      afero.Fs
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ []string

	// NoRC skips the init scripts.
	NoRC bool

	Config *config.Configuration
}

// Session is one shell run: a context plus the configuration that shapes
// its prompts and startup.
type Session struct {
	ctx  *interp.Context
	cfg  *config.Configuration
	noRC bool
}

// New builds a session with every builtin registered and the environment
// seeded from opts.Environ.
func New(opts Options) *Session {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	ctx := interp.NewContext(opts.FS, interp.IO{
		In:  opts.Stdin,
		Out: opts.Stdout,
		Err: opts.Stderr,
	})
	for name, builtin := range builtins.AllBuiltins {
		ctx.Builtins[name] = builtin
	}
	ctx.PopulateEnviron(opts.Environ)

	if ctx.Dir = ctx.GetVar(EnvPWD); ctx.Dir == "" {
		ctx.Dir = "/"
		ctx.Scope.Declare(EnvPWD, interp.Value{Word: ctx.Dir})
	}
	if _, ok := ctx.Scope.Get(EnvPrompt); !ok {
		ctx.Scope.Declare(EnvPrompt, interp.Value{Word: opts.Config.Prompt})
	}
	if _, ok := ctx.Scope.Get(EnvPS2); !ok {
		ctx.Scope.Declare(EnvPS2, interp.Value{Word: opts.Config.ContinuationPrompt})
	}

	return &Session{ctx: ctx, cfg: opts.Config, noRC: opts.NoRC}
}

// Context exposes the session's interpreter state, mostly for tests.
func (s *Session) Context() *interp.Context {
	return s.ctx
}

// RunCommand parses and runs src, returning the shell exit code.
func (s *Session) RunCommand(src string) int {
	s.sourceInitScripts(false)
	return s.run(src)
}

// RunScript runs the script at path.
func (s *Session) RunScript(path string) int {
	s.sourceInitScripts(false)
	contents, err := afero.ReadFile(s.ctx.FS, s.ctx.AbsPath(path))
	if err != nil {
		s.errorf("%v", err)
		return 1
	}
	return s.run(string(contents))
}

// RunStdin reads a whole script from standard input and runs it.
func (s *Session) RunStdin() int {
	s.sourceInitScripts(false)
	contents, err := io.ReadAll(s.ctx.IO.In)
	if err != nil {
		s.errorf("%v", err)
		return 1
	}
	return s.run(string(contents))
}

func (s *Session) run(src string) int {
	prog, err := parse.Parse(src)
	if err != nil {
		s.errorf("%v", err)
		return 1
	}
	code := s.ctx.RunProgram(*prog)
	if exitCode, requested := s.ctx.ExitRequested(); requested {
		return exitCode
	}
	return code
}

// RunInteractive drives the read-eval-print loop until EOF or exit.
func (s *Session) RunInteractive() int {
	s.ctx.Interactive = true
	s.sourceInitScripts(true)

	home := s.ctx.GetVar(EnvHome)
	historyPath := s.cfg.HistoryPath(home)
	// History persists on the host filesystem regardless of the session FS.
	_ = os.MkdirAll(filepath.Dir(historyPath), 0o755)

	rlCfg := &readline.Config{
		Prompt:      s.prompt(EnvPrompt),
		HistoryFile: historyPath,
		Stdin:       readline.NewCancelableStdin(s.ctx.IO.In),
		Stdout:      s.ctx.IO.Out,
		Stderr:      s.ctx.IO.Err,
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		s.errorf("%v", err)
		return 1
	}
	defer rl.Close()

	var pending string
	for {
		if pending == "" {
			rl.SetPrompt(s.prompt(EnvPrompt))
		} else {
			rl.SetPrompt(s.prompt(EnvPS2))
		}

		line, err := rl.Readline()
		switch {
		case err == io.EOF:
			return s.ctx.LastExit

		case err == readline.ErrInterrupt:
			pending = ""
			continue

		case err != nil:
			s.errorf("%v", err)
			continue
		}

		src := line
		if pending != "" {
			src = pending + "\n" + line
		}
		if src == "" {
			continue
		}

		prog, perr := parse.Parse(src)
		if parse.IsIncomplete(perr) {
			pending = src
			continue
		}
		pending = ""
		if perr != nil {
			s.errorf("%v", perr)
			continue
		}

		s.ctx.RunProgram(*prog)
		if code, requested := s.ctx.ExitRequested(); requested {
			return code
		}
	}
}

// sourceInitScripts runs the startup scripts that exist. Interactive
// sessions additionally source the interactive script.
func (s *Session) sourceInitScripts(interactive bool) {
	if s.noRC {
		return
	}
	home := s.ctx.GetVar(EnvHome)
	if home == "" {
		return
	}
	for i, script := range s.cfg.InitScripts(home) {
		if i > 0 && !interactive {
			break
		}
		contents, err := afero.ReadFile(s.ctx.FS, script)
		if err != nil {
			continue
		}
		prog, err := parse.Parse(string(contents))
		if err != nil {
			s.errorf("%s: %v", script, err)
			continue
		}
		s.ctx.RunProgram(*prog)
	}
}

// prompt interpolates the prompt template held in the named variable.
// Templates may reference variables, subshells, and value pipelines the
// same way backtick strings do.
func (s *Session) prompt(name string) string {
	template := s.ctx.GetVar(name)
	word, err := templateWord(template)
	if err != nil {
		return template
	}
	expanded, err := s.ctx.ExpandWordString(word)
	if err != nil {
		return template
	}
	return expanded
}

func templateWord(template string) (ast.Word, error) {
	prog, err := parse.Parse("`" + template + "`")
	if err != nil {
		return nil, err
	}
	if len(prog.Statements) != 1 {
		return nil, fmt.Errorf("%q is not a single word", template)
	}
	chain, ok := prog.Statements[0].(ast.AndOr)
	if !ok || len(chain.Pipelines) != 1 || len(chain.Pipelines[0].Segments) != 1 {
		return nil, fmt.Errorf("%q is not a single word", template)
	}
	cmd := chain.Pipelines[0].Segments[0].Command
	if len(cmd.Args) != 1 {
		return nil, fmt.Errorf("%q is not a single word", template)
	}
	return cmd.Args[0], nil
}

func (s *Session) errorf(format string, args ...interface{}) {
	errorColor.Fprintf(s.ctx.IO.Err, "pjsh: "+format+"\n", args...)
}
