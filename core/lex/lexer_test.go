package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kinds strips positions and payloads, keeping only the token kinds.
func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []TokenKind
	}{
		{"empty", "", []TokenKind{Eof}},
		{"words", "echo hello", []TokenKind{Literal, Whitespace, Literal, Eof}},
		{"comment", "# note\nls", []TokenKind{Comment, Eol, Literal, Eof}},
		{"semi", "a;b", []TokenKind{Literal, Semi, Literal, Eof}},
		{"and or", "a && b || c", []TokenKind{
			Literal, Whitespace, AndIf, Whitespace, Literal, Whitespace,
			OrIf, Whitespace, Literal, Eof,
		}},
		{"pipe", "a | b", []TokenKind{Literal, Whitespace, Pipe, Whitespace, Literal, Eof}},
		{"smart pipe", "->| a ;", []TokenKind{PipeStart, Whitespace, Literal, Whitespace, Semi, Eof}},
		{"async", "slow &", []TokenKind{Literal, Whitespace, Amp, Eof}},
		{"assign", "x := y", []TokenKind{Literal, Whitespace, Assign, Whitespace, Literal, Eof}},
		{"assign result", "x ::= y", []TokenKind{Literal, Whitespace, AssignResult, Whitespace, Literal, Eof}},
		{"colon literal", "a:b", []TokenKind{Literal, Eof}},
		{"redirect write", "a > f", []TokenKind{Literal, Whitespace, FdWriteFrom, Whitespace, Literal, Eof}},
		{"redirect append", "a >> f", []TokenKind{Literal, Whitespace, FdAppendFrom, Whitespace, Literal, Eof}},
		{"redirect read", "a < f", []TokenKind{Literal, Whitespace, FdReadTo, Whitespace, Literal, Eof}},
		{"process substitution", "diff <(a) b", []TokenKind{
			Literal, Whitespace, ProcessSubstitution, Literal, CloseParen,
			Whitespace, Literal, Eof,
		}},
		{"subshell", "(a)", []TokenKind{OpenParen, Literal, CloseParen, Eof}},
		{"braces", "{ a }", []TokenKind{OpenBrace, Whitespace, Literal, Whitespace, CloseBrace, Eof}},
		{"list", "[a b]", []TokenKind{OpenBracket, Literal, Whitespace, Literal, CloseBracket, Eof}},
		{"condition", "[[ -n a ]]", []TokenKind{
			DoubleOpenBracket, Whitespace, Literal, Whitespace, Literal,
			Whitespace, DoubleCloseBracket, Eof,
		}},
		{"inverted condition", "[[ ! a == b ]]", []TokenKind{
			DoubleOpenBracket, Whitespace, Literal, Whitespace, Literal, Whitespace,
			Literal, Whitespace, Literal, Whitespace, DoubleCloseBracket, Eof,
		}},
		{"dollar subshell", "$(a)", []TokenKind{DollarOpenParen, Literal, CloseParen, Eof}},
		{"value pipeline", "${x | sort}", []TokenKind{
			DollarOpenBrace, Literal, Whitespace, Pipe, Whitespace, Literal, CloseBrace, Eof,
		}},
		{"quoted", `"a b"`, []TokenKind{Quote, Quoted, Quote, Eof}},
		{"single quoted", "'a b'", []TokenKind{Quote, Quoted, Quote, Eof}},
		{"triple quoted", `"""` + "\nx\n" + `"""`, []TokenKind{TripleQuote, Quoted, TripleQuote, Eof}},
		{"crlf", "a\r\nb", []TokenKind{Literal, Eol, Literal, Eof}},
		{"range literal", "1..=3", []TokenKind{Literal, Eof}},
		{"spread variable", "$args...", []TokenKind{Spread, Eof}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, kinds(tokens))
		})
	}
}

func TestTokenizeVariables(t *testing.T) {
	cases := []struct {
		src  string
		name string
	}{
		{"$x", "x"},
		{"$long_name", "long_name"},
		{"$?", "?"},
		{"$$", "$"},
		{"$1", "1"},
		{"$12", "12"},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tokens, err := Tokenize(tc.src)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, Variable, tokens[0].Kind)
			assert.Equal(t, tc.name, tokens[0].Text)
		})
	}
}

func TestTokenizeNumberedRedirects(t *testing.T) {
	tokens, err := Tokenize("cmd 2> err.log")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Literal, Whitespace, FdWriteFrom, Whitespace, Literal, Eof}, kinds(tokens))
	assert.Equal(t, 2, tokens[2].FD)

	tokens, err = Tokenize("cmd 2>> err.log")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Literal, Whitespace, FdAppendFrom, Whitespace, Literal, Eof}, kinds(tokens))
	assert.Equal(t, 2, tokens[2].FD)

	// A digit word not touching an operator stays a literal.
	tokens, err = Tokenize("echo 2 > f")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		Literal, Whitespace, Literal, Whitespace, FdWriteFrom, Whitespace, Literal, Eof,
	}, kinds(tokens))
}

func TestTokenizeQuotedEscapes(t *testing.T) {
	tokens, err := Tokenize(`"say \"hi\""`)
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Quote, Quoted, Quoted, Quoted, Quoted, Quote, Eof}, kinds(tokens))

	var text string
	for _, tok := range tokens {
		if tok.Kind == Quoted {
			text += tok.Text
		}
	}
	assert.Equal(t, `say "hi"`, text)
}

func TestTokenizeInterpolation(t *testing.T) {
	tokens, err := Tokenize("`hi $name!`")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Interpolation, Eof}, kinds(tokens))

	units := tokens[0].Units
	require.Len(t, units, 3)
	assert.Equal(t, InterpolationUnit{Kind: UnitLiteral, Text: "hi "}, units[0])
	assert.Equal(t, InterpolationUnit{Kind: UnitVariable, Text: "name"}, units[1])
	assert.Equal(t, InterpolationUnit{Kind: UnitLiteral, Text: "!"}, units[2])
}

func TestTokenizeInterpolationEscapes(t *testing.T) {
	tokens, err := Tokenize(`` + "`" + `\e[31m \u{1F600} \\` + "`")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Interpolation, Eof}, kinds(tokens))

	units := tokens[0].Units
	require.Len(t, units, 5)
	assert.Equal(t, UnitUnicode, units[0].Kind)
	assert.Equal(t, '\x1b', units[0].Rune)
	assert.Equal(t, InterpolationUnit{Kind: UnitLiteral, Text: "[31m "}, units[1])
	assert.Equal(t, UnitUnicode, units[2].Kind)
	assert.Equal(t, '\U0001F600', units[2].Rune)
	assert.Equal(t, InterpolationUnit{Kind: UnitLiteral, Text: " "}, units[3])
	assert.Equal(t, InterpolationUnit{Kind: UnitLiteral, Text: `\`}, units[4])
}

func TestTokenizeInterpolationSubshell(t *testing.T) {
	tokens, err := Tokenize("`now: $(date)`")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Interpolation, Eof}, kinds(tokens))

	units := tokens[0].Units
	require.Len(t, units, 2)
	assert.Equal(t, UnitSubshell, units[1].Kind)
	assert.Equal(t, []TokenKind{Literal}, kinds(units[1].Tokens))
}

func TestTokenizeInterpolationPipeline(t *testing.T) {
	tokens, err := Tokenize("`${x | upper}`")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{Interpolation, Eof}, kinds(tokens))

	units := tokens[0].Units
	require.Len(t, units, 1)
	assert.Equal(t, UnitPipeline, units[0].Kind)
	assert.Equal(t, []TokenKind{
		DollarOpenBrace, Literal, Whitespace, Pipe, Whitespace, Literal, CloseBrace,
	}, kinds(units[0].Tokens))
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("ab\ncd")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, Position{Line: 1, Column: 3, Offset: 2}, tokens[1].Pos)
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 3}, tokens[2].Pos)
	assert.Equal(t, "2:1", tokens[2].Pos.String())
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unterminated quote", `"abc`},
		{"unterminated multiline", `"""abc`},
		{"unterminated interpolation", "`abc"},
		{"bad unicode escape", "`\\u{zz}`"},
		{"bare dollar", "$ "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.src)
			assert.Error(t, err)
		})
	}
}
