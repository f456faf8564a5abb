package ast

// Word is an unexpanded fragment of a command line. Expansion turns each word
// into zero or more strings.
type Word interface {
	word()

	// Globbable reports whether the word participates in pattern expansion
	// after interpolation. Quoting suppresses globbing.
	Globbable() bool
}

// Literal is a bare unquoted word.
type Literal struct {
	Value string
}

// Quoted is a single-quoted, double-quoted, or multiline-quoted word. It
// expands to exactly its value.
type Quoted struct {
	Value string
}

// Variable expands to the value bound to Name. Unset names expand to the
// empty string.
type Variable struct {
	Name string
}

// Interpolation is a backtick word assembled from literal text, escapes,
// embedded variables, subshells, and value pipelines.
type Interpolation struct {
	Units []InterpolationUnit
}

// InterpolationUnit is one piece of an Interpolation.
type InterpolationUnit struct {
	// Word is the unit rendered as a standalone word. Literal text and
	// escapes become Quoted; "$name" becomes Variable; "$(...)" becomes
	// Subshell; "${...}" becomes ValuePipeline.
	Word Word
}

// ValuePipeline reads a base value and threads it through a chain of filters,
// as in "${names | sort | join ,}".
type ValuePipeline struct {
	Base    Word
	Filters []Filter
}

// Filter is one stage of a value pipeline.
type Filter struct {
	Name string
	Args []Word
}

// SubshellWord runs Body with captured stdout and expands to the output
// trimmed of one trailing newline.
type SubshellWord struct {
	Body Program
}

// ProcessSubstitution runs Body with captured stdout and expands to the path
// of a temporary file holding that output.
type ProcessSubstitution struct {
	Body Program
}

// Property indexes into a list-valued variable, as in "${names.0}".
type Property struct {
	Object string
	Key    string
}

// Spread expands a list-valued variable to one word per element.
type Spread struct {
	Name string
}

func (Literal) word()             {}
func (Quoted) word()              {}
func (Variable) word()            {}
func (Interpolation) word()       {}
func (ValuePipeline) word()       {}
func (SubshellWord) word()        {}
func (ProcessSubstitution) word() {}
func (Property) word()            {}
func (Spread) word()              {}

func (Literal) Globbable() bool             { return true }
func (Quoted) Globbable() bool              { return false }
func (Variable) Globbable() bool            { return false }
func (Interpolation) Globbable() bool       { return false }
func (ValuePipeline) Globbable() bool       { return false }
func (SubshellWord) Globbable() bool        { return false }
func (ProcessSubstitution) Globbable() bool { return false }
func (Property) Globbable() bool            { return false }
func (Spread) Globbable() bool              { return false }
