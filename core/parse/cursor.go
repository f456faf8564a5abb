package parse

import "github.com/pjsh-lang/pjsh/core/lex"

// tokenCursor walks a token stream, transparently skipping whitespace and
// comments. Line endings are normally significant as statement separators;
// constructs such as smart pipelines and list literals push a depth under
// which they are skipped as well.
type tokenCursor struct {
	tokens  []lex.Token
	next    int
	nlDepth int
}

func newTokenCursor(tokens []lex.Token) *tokenCursor {
	return &tokenCursor{tokens: tokens}
}

func (c *tokenCursor) skippable(t lex.Token) bool {
	switch t.Kind {
	case lex.Whitespace, lex.Comment:
		return true
	case lex.Eol:
		return c.nlDepth > 0
	}
	return false
}

// PushNewlineIsWhitespace makes line endings insignificant until the matching
// pop.
func (c *tokenCursor) PushNewlineIsWhitespace() { c.nlDepth++ }

func (c *tokenCursor) PopNewlineIsWhitespace() { c.nlDepth-- }

// Peek returns the next significant token without consuming it.
func (c *tokenCursor) Peek() lex.Token {
	i := c.next
	for i < len(c.tokens) && c.skippable(c.tokens[i]) {
		i++
	}
	if i >= len(c.tokens) {
		return lex.Token{Kind: lex.Eof, Pos: c.lastPos()}
	}
	return c.tokens[i]
}

// Next consumes and returns the next significant token. The trailing Eof
// token is never consumed.
func (c *tokenCursor) Next() lex.Token {
	for c.next < len(c.tokens) && c.skippable(c.tokens[c.next]) {
		c.next++
	}
	if c.next >= len(c.tokens) {
		return lex.Token{Kind: lex.Eof, Pos: c.lastPos()}
	}
	t := c.tokens[c.next]
	if t.Kind != lex.Eof {
		c.next++
	}
	return t
}

// NextIf consumes the next token if it has the given kind.
func (c *tokenCursor) NextIf(kind lex.TokenKind) bool {
	if c.Peek().Kind != kind {
		return false
	}
	c.Next()
	return true
}

// Expect consumes the next token, failing unless it has the given kind.
func (c *tokenCursor) Expect(kind lex.TokenKind) (lex.Token, error) {
	if t := c.Peek(); t.Kind != kind {
		return lex.Token{}, &Error{Pos: t.Pos, Expected: kind.String(), Found: t}
	}
	return c.Next(), nil
}

// Mark returns the current read position for a later Reset.
func (c *tokenCursor) Mark() int { return c.next }

// Reset rewinds the cursor to a position returned by Mark.
func (c *tokenCursor) Reset(mark int) { c.next = mark }

func (c *tokenCursor) lastPos() lex.Position {
	if len(c.tokens) == 0 {
		return lex.Position{Line: 1, Column: 1}
	}
	return c.tokens[len(c.tokens)-1].Pos
}
