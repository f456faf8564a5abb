// Package builtins implements the shell's builtin commands. Each builtin
// registers itself into AllBuiltins; the session wires the registry into the
// interpreter at startup.
package builtins

import (
	"fmt"
	"io"
	"sort"

	getopt "github.com/pborman/getopt/v2"

	"github.com/pjsh-lang/pjsh/core/interp"
)

// BuiltinFunc runs a builtin command and returns its exit code.
type BuiltinFunc = interp.BuiltinFunc

// AllBuiltins holds every registered builtin by name.
var AllBuiltins = make(map[string]BuiltinFunc)

func register(name string, builtin BuiltinFunc) {
	AllBuiltins[name] = builtin
}

// Names returns the sorted names of all registered builtins.
func Names() []string {
	names := make([]string, 0, len(AllBuiltins))
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimpleCommand handles flag parsing and help output for a builtin.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is non-nil
	// when Run() is called, then the default help flag isn't added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}
	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses flags from args and, on success, calls the callback with the
// remaining positional arguments.
func (s *SimpleCommand) Run(name string, stdio interp.IO, args []string, callback func(args []string) int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(append([]string{name}, args...), nil); err != nil {
		fmt.Fprintf(stdio.Err, "error: %s\n\n", err)
		s.PrintHelp(stdio.Out)
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(stdio.Out)
		return 0
	}

	return callback(opts.Args())
}
