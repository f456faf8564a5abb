// Package ast defines the syntax tree produced by the parser and consumed by
// the interpreter.
package ast

// Program is a sequence of statements.
type Program struct {
	Statements []Statement
}

// Statement is one top-level unit of execution.
type Statement interface {
	statement()
}

// AndOr is a chain of pipelines joined by "&&" and "||". Operators[i] joins
// Pipelines[i] and Pipelines[i+1].
type AndOr struct {
	Pipelines []Pipeline
	Operators []AndOrOp
}

// AndOrOp joins two pipelines in an AndOr chain.
type AndOrOp int

const (
	// OpAnd runs the next pipeline only if the previous one succeeded.
	OpAnd AndOrOp = iota
	// OpOr runs the next pipeline only if the previous one failed.
	OpOr
)

// Pipeline is one or more commands with each stage's stdout wired to the next
// stage's stdin. Async pipelines are started without being waited on.
type Pipeline struct {
	Segments []PipelineSegment
	Async    bool
}

// PipelineSegment is a single stage of a pipeline: a command, or a compact
// condition written "[[ word... ]]".
type PipelineSegment struct {
	Command Command

	// Condition holds the words of a compact condition segment. When
	// non-nil the segment evaluates the condition (exit 0 on true, 1 on
	// false) instead of running Command.
	Condition []Word
}

// Command is a program invocation: a name word, argument words, and
// redirections.
type Command struct {
	Args      []Word
	Redirects []Redirect
}

// RedirectMode selects how a redirection opens its target.
type RedirectMode int

const (
	// RedirectRead opens the target for reading.
	RedirectRead RedirectMode = iota
	// RedirectWrite truncates the target and opens it for writing.
	RedirectWrite
	// RedirectAppend opens the target for appending.
	RedirectAppend
)

// Redirect rebinds a file descriptor of a command to a file named by Target.
type Redirect struct {
	FD     int
	Mode   RedirectMode
	Target Word
}

// Assignment binds the expansion of Values to Name in the current scope.
// List is set when the right-hand side was written as a list literal or as
// multiple words, in which case a list value is bound.
type Assignment struct {
	Name   Word
	Values []Word
	List   bool
}

// CaptureAssignment runs Body and binds its captured stdout, trimmed of one
// trailing newline, to Name.
type CaptureAssignment struct {
	Name Word
	Body AndOr
}

// Subshell runs Body in a child scope populated with a snapshot of the
// current scope chain.
type Subshell struct {
	Body Program
}

// ConditionalChain is an if / else if / else ladder. Branches[i] runs when
// Conditions[i] is the first condition to exit zero; a trailing branch
// without a condition is the else arm.
type ConditionalChain struct {
	Conditions []AndOr
	Branches   []Program
}

// Switch compares the expansion of Subject against each case's patterns and
// runs the first matching branch. A Default branch, if present, runs when no
// case matches.
type Switch struct {
	Subject Word
	Cases   []SwitchCase
	Default *Program
}

// SwitchCase is one arm of a Switch.
type SwitchCase struct {
	Patterns []Word
	Body     Program
}

// While repeatedly runs Body while Condition exits zero. With Until set the
// truth test is inverted and Body runs while Condition exits nonzero.
type While struct {
	Condition AndOr
	Body      Program
	Until     bool
}

// ForIn binds Variable to each element of Iterable in turn and runs Body in a
// per-iteration scope.
type ForIn struct {
	Variable string
	Iterable Iterable
	Body     Program
}

// ForInOf iterates over a derived view of a single word: its characters,
// lines, or whitespace-separated words.
type ForInOf struct {
	Variable string
	View     WordView
	Source   Word
	Body     Program
}

// WordView selects the decomposition used by ForInOf.
type WordView int

const (
	// ViewChars yields one element per character.
	ViewChars WordView = iota
	// ViewLines yields one element per line.
	ViewLines
	// ViewWords yields one element per whitespace-separated word.
	ViewWords
)

// Function declares a named function. Params bind positionally; a RestParam,
// if named, collects the remaining arguments as a list.
type Function struct {
	Name      string
	Params    []string
	RestParam string
	Body      Program
}

// Iterable is the source of a ForIn loop.
type Iterable interface {
	iterable()
}

// RangeIterable yields the integers from Start through End inclusive,
// descending when Start exceeds End.
type RangeIterable struct {
	Start int
	End   int
}

// ListIterable yields the expansion of each element word.
type ListIterable struct {
	Elements []Word
}

// VariableIterable yields the elements of a list-valued variable.
type VariableIterable struct {
	Name string
}

func (RangeIterable) iterable()    {}
func (ListIterable) iterable()     {}
func (VariableIterable) iterable() {}

func (AndOr) statement()             {}
func (Assignment) statement()        {}
func (CaptureAssignment) statement() {}
func (Subshell) statement()          {}
func (ConditionalChain) statement()  {}
func (Switch) statement()            {}
func (While) statement()             {}
func (ForIn) statement()             {}
func (ForInOf) statement()           {}
func (Function) statement()          {}
