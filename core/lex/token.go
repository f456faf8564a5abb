package lex

import "fmt"

// TokenKind identifies the syntactic class of a token.
type TokenKind int

const (
	// Eof marks the end of input.
	Eof TokenKind = iota
	// Eol marks a line ending ("\n" or "\r\n").
	Eol
	// Whitespace covers runs of spaces and tabs.
	Whitespace
	// Comment covers "# ..." until the end of the line.
	Comment

	// Literal is an unquoted word.
	Literal
	// Variable is a "$name" or "${name}" reference.
	Variable
	// Quoted is a span of characters inside a quoted string.
	Quoted
	// Quote is a single quoting delimiter, "'" or `"`.
	Quote
	// TripleQuote is a multiline quoting delimiter, "'''" or `"""`.
	TripleQuote
	// Interpolation is a backtick-delimited word with embedded units.
	Interpolation

	// OpenParen is "(".
	OpenParen
	// CloseParen is ")".
	CloseParen
	// OpenBrace is "{".
	OpenBrace
	// CloseBrace is "}".
	CloseBrace
	// OpenBracket is "[".
	OpenBracket
	// CloseBracket is "]".
	CloseBracket
	// DoubleOpenBracket is "[[", opening a compact condition.
	DoubleOpenBracket
	// DoubleCloseBracket is "]]".
	DoubleCloseBracket
	// DollarOpenParen is "$(".
	DollarOpenParen
	// DollarOpenBrace is "${".
	DollarOpenBrace
	// ProcessSubstitution is "<(".
	ProcessSubstitution

	// AndIf is "&&".
	AndIf
	// OrIf is "||".
	OrIf
	// Amp is "&".
	Amp
	// Pipe is "|".
	Pipe
	// PipeStart is "->|", opening a terminated pipeline.
	PipeStart
	// Semi is ";".
	Semi
	// Assign is ":=".
	Assign
	// AssignResult is "::=".
	AssignResult
	// Spread is "...".
	Spread

	// FdReadTo is "<" or "N<", reading into descriptor FD.
	FdReadTo
	// FdWriteFrom is ">" or "N>", writing from descriptor FD.
	FdWriteFrom
	// FdAppendFrom is ">>" or "N>>", appending from descriptor FD.
	FdAppendFrom
)

var tokenNames = map[TokenKind]string{
	Eof:                 "end of input",
	Eol:                 "end of line",
	Whitespace:          "whitespace",
	Comment:             "comment",
	Literal:             "literal",
	Variable:            "variable",
	Quoted:              "quoted text",
	Quote:               "quote",
	TripleQuote:         "triple quote",
	Interpolation:       "interpolation",
	OpenParen:           `"("`,
	CloseParen:          `")"`,
	OpenBrace:           `"{"`,
	CloseBrace:          `"}"`,
	OpenBracket:         `"["`,
	CloseBracket:        `"]"`,
	DoubleOpenBracket:   `"[["`,
	DoubleCloseBracket:  `"]]"`,
	DollarOpenParen:     `"$("`,
	DollarOpenBrace:     `"${"`,
	ProcessSubstitution: `"<("`,
	AndIf:               `"&&"`,
	OrIf:                `"||"`,
	Amp:                 `"&"`,
	Pipe:                `"|"`,
	PipeStart:           `"->|"`,
	Semi:                `";"`,
	Assign:              `":="`,
	AssignResult:        `"::="`,
	Spread:              `"..."`,
	FdReadTo:            `"<"`,
	FdWriteFrom:         `">"`,
	FdAppendFrom:        `">>"`,
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Position is a location within some source text. Lines and columns are
// 1-based; Offset is the 0-based rune index.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// UnitKind identifies the class of an interpolation unit.
type UnitKind int

const (
	// UnitLiteral is a verbatim piece of text.
	UnitLiteral UnitKind = iota
	// UnitUnicode is a single escaped character such as "\u{1F600}" or "\e".
	UnitUnicode
	// UnitVariable is an embedded "$name" reference.
	UnitVariable
	// UnitSubshell is an embedded "$(...)" whose tokens are evaluated at
	// execution time.
	UnitSubshell
	// UnitPipeline is an embedded "${name | filter ...}" value pipeline.
	UnitPipeline
)

// InterpolationUnit is a sub-unit of an Interpolation token.
type InterpolationUnit struct {
	Kind UnitKind

	// Text holds the contents of literal and variable units.
	Text string

	// Rune holds the character of a unicode unit.
	Rune rune

	// Tokens holds the nested tokens of subshell and pipeline units.
	Tokens []Token
}

// Token is a unit of input identified through lexical analysis. Tokens are
// immutable once produced.
type Token struct {
	Kind TokenKind

	// Text holds the contents of literal, variable, and quoted tokens.
	Text string

	// FD holds the source file descriptor of redirection tokens.
	FD int

	// Units holds the sub-units of interpolation tokens.
	Units []InterpolationUnit

	// Multiline is set on triple-backtick interpolation tokens, whose
	// indentation is stripped during parsing.
	Multiline bool

	// Pos is the token's starting position in the source text.
	Pos Position
}

// Error is a lexing failure at a known position. Incomplete marks failures
// caused by input ending inside an open construct, letting interactive
// callers prompt for a continuation line instead of reporting an error.
type Error struct {
	Pos        Position
	Reason     string
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Reason)
}
