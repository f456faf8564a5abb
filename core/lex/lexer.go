package lex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// mode is a lexing mode. The lexer switches modes when it crosses quoting
// delimiters.
type mode int

const (
	modeUnquoted mode = iota
	modeQuoted
	modeMultiline
)

// Lexer tokenizes source text. It holds no state beyond the read position and
// the active quoting mode; re-lexing requires a new Lexer over the same text.
type Lexer struct {
	cur   *Cursor
	mode  mode
	delim rune
}

// New returns a lexer over src.
func New(src string) *Lexer {
	return &Lexer{cur: NewCursor(src)}
}

// Tokenize lexes src in full, returning every token including whitespace and
// comments. The final token is always Eof.
func Tokenize(src string) ([]Token, error) {
	lexer := New(src)
	var tokens []Token
	for {
		token, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Kind == Eof {
			return tokens, nil
		}
	}
}

// Next returns the next token of input.
func (l *Lexer) Next() (Token, error) {
	switch l.mode {
	case modeQuoted:
		return l.nextQuoted()
	case modeMultiline:
		return l.nextMultiline()
	default:
		return l.nextUnquoted()
	}
}

func (l *Lexer) nextUnquoted() (Token, error) {
	pos := l.cur.Pos()
	switch next := l.cur.Peek(); {
	case next == eof:
		return Token{Kind: Eof, Pos: pos}, nil
	case next == '#':
		text := l.cur.TakeWhile(func(r rune) bool { return !isNewline(r) })
		return Token{Kind: Comment, Text: text, Pos: pos}, nil
	case next == '\n' || next == '\r':
		if !l.cur.TakeIf("\r\n") {
			l.cur.Next()
		}
		return Token{Kind: Eol, Pos: pos}, nil
	case next == ' ' || next == '\t':
		l.cur.TakeWhile(func(r rune) bool { return r == ' ' || r == '\t' })
		return Token{Kind: Whitespace, Pos: pos}, nil
	case next == ';':
		l.cur.Next()
		return Token{Kind: Semi, Pos: pos}, nil
	case next == '|':
		l.cur.Next()
		if l.cur.NextIf('|') {
			return Token{Kind: OrIf, Pos: pos}, nil
		}
		return Token{Kind: Pipe, Pos: pos}, nil
	case next == '&':
		l.cur.Next()
		if l.cur.NextIf('&') {
			return Token{Kind: AndIf, Pos: pos}, nil
		}
		return Token{Kind: Amp, Pos: pos}, nil
	case next == '<':
		l.cur.Next()
		if l.cur.NextIf('(') {
			return Token{Kind: ProcessSubstitution, Pos: pos}, nil
		}
		return Token{Kind: FdReadTo, FD: 0, Pos: pos}, nil
	case next == '>':
		return l.lexRedirect(1, pos), nil
	case next == '(':
		l.cur.Next()
		return Token{Kind: OpenParen, Pos: pos}, nil
	case next == ')':
		l.cur.Next()
		return Token{Kind: CloseParen, Pos: pos}, nil
	case next == '{':
		l.cur.Next()
		return Token{Kind: OpenBrace, Pos: pos}, nil
	case next == '}':
		l.cur.Next()
		return Token{Kind: CloseBrace, Pos: pos}, nil
	case next == '[':
		l.cur.Next()
		if l.cur.NextIf('[') {
			return Token{Kind: DoubleOpenBracket, Pos: pos}, nil
		}
		return Token{Kind: OpenBracket, Pos: pos}, nil
	case next == ']':
		l.cur.Next()
		if l.cur.NextIf(']') {
			return Token{Kind: DoubleCloseBracket, Pos: pos}, nil
		}
		return Token{Kind: CloseBracket, Pos: pos}, nil
	case next == '\'' || next == '"':
		return l.lexQuoteOpen(next, pos), nil
	case next == '`':
		return l.lexInterpolation(pos)
	case next == '$':
		return l.lexExpandable(pos)
	case next == ':':
		return l.lexAssignOrLiteral(pos), nil
	case next == '.':
		if l.cur.TakeIf("...") {
			return Token{Kind: Spread, Pos: pos}, nil
		}
		return l.lexLiteral(pos), nil
	case next == '-':
		if l.cur.TakeIf("->|") {
			return Token{Kind: PipeStart, Pos: pos}, nil
		}
		return l.lexLiteral(pos), nil
	default:
		return l.lexLiteralOrFdRedirect(pos), nil
	}
}

// lexRedirect lexes ">" or ">>" writing from descriptor fd.
func (l *Lexer) lexRedirect(fd int, pos Position) Token {
	l.cur.Next()
	if l.cur.NextIf('>') {
		return Token{Kind: FdAppendFrom, FD: fd, Pos: pos}
	}
	return Token{Kind: FdWriteFrom, FD: fd, Pos: pos}
}

// lexLiteralOrFdRedirect lexes a literal word. A word consisting solely of
// digits and immediately followed by a redirection operator is instead lexed
// as the operator's source file descriptor, supporting "2> err.log".
func (l *Lexer) lexLiteralOrFdRedirect(pos Position) Token {
	token := l.lexLiteral(pos)
	if !isAllDigits(token.Text) {
		return token
	}

	switch l.cur.Peek() {
	case '>':
		fd, _ := strconv.Atoi(token.Text)
		return l.lexRedirect(fd, pos)
	case '<':
		fd, _ := strconv.Atoi(token.Text)
		l.cur.Next()
		return Token{Kind: FdReadTo, FD: fd, Pos: pos}
	}

	return token
}

func (l *Lexer) lexLiteral(pos Position) Token {
	text := l.cur.TakeWhile(isLiteral)
	return Token{Kind: Literal, Text: text, Pos: pos}
}

func (l *Lexer) lexAssignOrLiteral(pos Position) Token {
	token := l.lexLiteral(pos)
	switch token.Text {
	case "::=":
		return Token{Kind: AssignResult, Pos: pos}
	case ":=":
		return Token{Kind: Assign, Pos: pos}
	}
	return token
}

// lexQuoteOpen opens a quoted or triple-quoted string and switches the lexer
// into the matching mode.
func (l *Lexer) lexQuoteOpen(delim rune, pos Position) Token {
	l.cur.Next()
	l.delim = delim
	if l.cur.TakeIf(string([]rune{delim, delim})) {
		l.mode = modeMultiline
		return Token{Kind: TripleQuote, Pos: pos}
	}
	l.mode = modeQuoted
	return Token{Kind: Quote, Pos: pos}
}

func (l *Lexer) nextQuoted() (Token, error) {
	pos := l.cur.Pos()
	switch next := l.cur.Peek(); next {
	case eof:
		return Token{}, &Error{Pos: pos, Reason: "unterminated quoted string", Incomplete: true}
	case '\\':
		l.cur.Next()
		if l.cur.NextIf(l.delim) {
			return Token{Kind: Quoted, Text: string(l.delim), Pos: pos}, nil
		}
		return Token{Kind: Quoted, Text: `\`, Pos: pos}, nil
	case l.delim:
		l.cur.Next()
		l.mode = modeUnquoted
		return Token{Kind: Quote, Pos: pos}, nil
	default:
		delim := l.delim
		text := l.cur.TakeWhile(func(r rune) bool { return r != delim && r != '\\' })
		return Token{Kind: Quoted, Text: text, Pos: pos}, nil
	}
}

func (l *Lexer) nextMultiline() (Token, error) {
	pos := l.cur.Pos()
	closing := string([]rune{l.delim, l.delim, l.delim})

	if l.cur.TakeIf(closing) {
		l.mode = modeUnquoted
		return Token{Kind: TripleQuote, Pos: pos}, nil
	}

	var text strings.Builder
	for {
		if l.cur.Peek() == eof {
			return Token{}, &Error{Pos: pos, Reason: "unterminated multiline string", Incomplete: true}
		}
		if l.cur.Peek() == l.delim {
			if l.cur.PeekAt(1) == l.delim && l.cur.PeekAt(2) == l.delim {
				break
			}
			text.WriteRune(l.cur.Next())
			continue
		}
		delim := l.delim
		text.WriteString(l.cur.TakeWhile(func(r rune) bool { return r != delim }))
	}
	return Token{Kind: Quoted, Text: text.String(), Pos: pos}, nil
}

// lexExpandable lexes a token starting with "$".
func (l *Lexer) lexExpandable(pos Position) (Token, error) {
	l.cur.Next()
	switch l.cur.Peek() {
	case '(':
		l.cur.Next()
		return Token{Kind: DollarOpenParen, Pos: pos}, nil
	case '{':
		l.cur.Next()
		return Token{Kind: DollarOpenBrace, Pos: pos}, nil
	}
	return l.lexVariable(pos)
}

// lexVariable lexes a variable name following a "$".
func (l *Lexer) lexVariable(pos Position) (Token, error) {
	switch next := l.cur.Peek(); {
	case next == '$', next == '?':
		l.cur.Next()
		return Token{Kind: Variable, Text: string(next), Pos: pos}, nil
	case unicode.IsDigit(next):
		name := l.cur.TakeWhile(unicode.IsDigit)
		return Token{Kind: Variable, Text: name, Pos: pos}, nil
	case unicode.IsLetter(next) || next == '_':
		name := l.cur.TakeWhile(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		})
		if l.cur.TakeIf("...") {
			return Token{Kind: Spread, Text: name, Pos: pos}, nil
		}
		return Token{Kind: Variable, Text: name, Pos: pos}, nil
	default:
		return Token{}, &Error{Pos: pos, Reason: fmt.Sprintf("unexpected character %q after $", next)}
	}
}

// lexInterpolation lexes a backtick-delimited interpolation. Triple backticks
// open a multiline interpolation whose indentation is stripped by the parser.
func (l *Lexer) lexInterpolation(pos Position) (Token, error) {
	l.cur.Next()
	delim := "`"
	if l.cur.TakeIf("``") {
		delim = "```"
	}

	var units []InterpolationUnit
	for {
		switch next := l.cur.Peek(); {
		case next == eof:
			return Token{}, &Error{Pos: pos, Reason: "unterminated interpolation", Incomplete: true}
		case next == '`':
			if l.cur.TakeIf(delim) {
				return Token{Kind: Interpolation, Units: units, Multiline: delim == "```", Pos: pos}, nil
			}
			l.cur.Next()
			units = append(units, InterpolationUnit{Kind: UnitLiteral, Text: "`"})
		case next == '\\':
			unit, err := l.lexEscapeUnit()
			if err != nil {
				return Token{}, err
			}
			units = append(units, unit)
		case next == '$':
			unit, err := l.lexDollarUnit()
			if err != nil {
				return Token{}, err
			}
			units = append(units, unit)
		default:
			text := l.cur.TakeWhile(func(r rune) bool {
				return r != '$' && r != '\\' && r != '`'
			})
			units = append(units, InterpolationUnit{Kind: UnitLiteral, Text: text})
		}
	}
}

// lexEscapeUnit lexes an escape sequence inside an interpolation.
func (l *Lexer) lexEscapeUnit() (InterpolationUnit, error) {
	pos := l.cur.Pos()
	l.cur.Next() // Consume the backslash.

	switch {
	case l.cur.NextIf('e'):
		return InterpolationUnit{Kind: UnitUnicode, Rune: '\x1b'}, nil
	case l.cur.NextIf('u'):
		if !l.cur.NextIf('{') {
			return InterpolationUnit{}, &Error{Pos: pos, Reason: `expected "{" after \u`}
		}
		digits := l.cur.TakeWhile(func(r rune) bool { return r != '}' })
		if !l.cur.NextIf('}') {
			return InterpolationUnit{}, &Error{Pos: pos, Reason: `unterminated \u{...} escape`}
		}
		code, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return InterpolationUnit{}, &Error{Pos: pos, Reason: fmt.Sprintf(`invalid unicode escape \u{%s}`, digits)}
		}
		return InterpolationUnit{Kind: UnitUnicode, Rune: rune(code)}, nil
	default:
		return InterpolationUnit{Kind: UnitLiteral, Text: string(l.cur.Next())}, nil
	}
}

// lexDollarUnit lexes a "$name", "$(...)" or "${...}" inside an interpolation.
// Nested subshell and pipeline forms are captured as token sequences that are
// parsed alongside the surrounding word.
func (l *Lexer) lexDollarUnit() (InterpolationUnit, error) {
	pos := l.cur.Pos()
	l.cur.Next() // Consume the dollar.

	switch l.cur.Peek() {
	case '(':
		l.cur.Next()
		tokens, err := l.lexNestedTokens(CloseParen, nil)
		if err != nil {
			return InterpolationUnit{}, err
		}
		return InterpolationUnit{Kind: UnitSubshell, Tokens: tokens}, nil
	case '{':
		open := Token{Kind: DollarOpenBrace, Pos: pos}
		l.cur.Next()
		tokens, err := l.lexNestedTokens(CloseBrace, []Token{open})
		if err != nil {
			return InterpolationUnit{}, err
		}
		return InterpolationUnit{Kind: UnitPipeline, Tokens: tokens}, nil
	default:
		token, err := l.lexVariable(pos)
		if err != nil {
			return InterpolationUnit{}, err
		}
		return InterpolationUnit{Kind: UnitVariable, Text: token.Text}, nil
	}
}

// lexNestedTokens lexes unquoted tokens until the until kind is seen. The
// terminator is included for pipeline units so the parser sees a balanced
// "${...}" sequence.
func (l *Lexer) lexNestedTokens(until TokenKind, tokens []Token) ([]Token, error) {
	for {
		token, err := l.nextUnquoted()
		if err != nil {
			return nil, err
		}
		switch token.Kind {
		case until:
			if until == CloseBrace {
				tokens = append(tokens, token)
			}
			return tokens, nil
		case Eof:
			return nil, &Error{Pos: token.Pos, Reason: "unterminated interpolation", Incomplete: true}
		default:
			tokens = append(tokens, token)
		}
	}
}

// isNewline reports whether r terminates a line.
func isNewline(r rune) bool {
	return r == '\n' || r == '\r'
}

// isLiteral reports whether r may appear in an unquoted literal word.
func isLiteral(r rune) bool {
	switch r {
	case eof, ' ', '\t', '\n', '\r',
		'"', '\'', '`', '$', '#',
		'|', '&', ';', '<', '>',
		'(', ')', '{', '}', '[', ']':
		return false
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
