package parse

import (
	"fmt"
	"strings"

	"github.com/pjsh-lang/pjsh/core/ast"
	"github.com/pjsh-lang/pjsh/core/lex"
)

func (p *parser) parseWord() (ast.Word, error) {
	switch t := p.cur.Peek(); t.Kind {
	case lex.Literal:
		p.cur.Next()
		return ast.Literal{Value: t.Text}, nil
	case lex.Variable:
		p.cur.Next()
		return ast.Variable{Name: t.Text}, nil
	case lex.Spread:
		p.cur.Next()
		if t.Text == "" {
			return nil, errorf(t.Pos, "spread requires a variable, as in $name...")
		}
		return ast.Spread{Name: t.Text}, nil
	case lex.Quote:
		return p.parseQuoted()
	case lex.TripleQuote:
		return p.parseMultiline()
	case lex.Interpolation:
		p.cur.Next()
		return p.buildInterpolation(t)
	case lex.DollarOpenParen:
		p.cur.Next()
		body, err := p.parseProgram(lex.CloseParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.cur.Expect(lex.CloseParen); err != nil {
			return nil, err
		}
		return ast.SubshellWord{Body: body}, nil
	case lex.ProcessSubstitution:
		p.cur.Next()
		body, err := p.parseProgram(lex.CloseParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.cur.Expect(lex.CloseParen); err != nil {
			return nil, err
		}
		return ast.ProcessSubstitution{Body: body}, nil
	case lex.DollarOpenBrace:
		return p.parseValuePipeline()
	default:
		return nil, &Error{Pos: t.Pos, Expected: "word", Found: t}
	}
}

func (p *parser) parseQuoted() (ast.Word, error) {
	if _, err := p.cur.Expect(lex.Quote); err != nil {
		return nil, err
	}
	var text strings.Builder
	for p.cur.Peek().Kind == lex.Quoted {
		text.WriteString(p.cur.Next().Text)
	}
	if _, err := p.cur.Expect(lex.Quote); err != nil {
		return nil, err
	}
	return ast.Quoted{Value: text.String()}, nil
}

func (p *parser) parseMultiline() (ast.Word, error) {
	open, err := p.cur.Expect(lex.TripleQuote)
	if err != nil {
		return nil, err
	}
	var text strings.Builder
	for p.cur.Peek().Kind == lex.Quoted {
		text.WriteString(p.cur.Next().Text)
	}
	if _, err := p.cur.Expect(lex.TripleQuote); err != nil {
		return nil, err
	}
	stripped, err := stripIndent(text.String(), open.Pos)
	if err != nil {
		return nil, err
	}
	return ast.Quoted{Value: stripped}, nil
}

// stripIndent removes the common indentation from a multiline string. The
// opening delimiter must be followed directly by a line ending; the second
// line's leading whitespace sets the indentation, which every later content
// line must share.
func stripIndent(text string, pos lex.Position) (string, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 || strings.TrimRight(lines[0], "\r") != "" {
		return "", errorf(pos, "multiline string content must start on a new line")
	}
	lines = lines[1:]

	// The final line holds only the closing delimiter's indentation.
	if strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := lines[0][:len(lines[0])-len(strings.TrimLeft(lines[0], " \t"))]
	stripped := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			stripped = append(stripped, "")
			continue
		}
		if !strings.HasPrefix(line, indent) {
			return "", errorf(pos, "inconsistent indentation on line %d of multiline string", i+1)
		}
		stripped = append(stripped, strings.TrimSuffix(line[len(indent):], "\r"))
	}
	return strings.Join(stripped, "\n"), nil
}

// parseValuePipeline parses "${name}", "${object.key}" and
// "${base | filter args ...}".
func (p *parser) parseValuePipeline() (ast.Word, error) {
	if _, err := p.cur.Expect(lex.DollarOpenBrace); err != nil {
		return nil, err
	}
	p.cur.PushNewlineIsWhitespace()
	defer p.cur.PopNewlineIsWhitespace()

	name, err := p.cur.Expect(lex.Literal)
	if err != nil {
		return nil, err
	}
	base := propertyOrVariable(name.Text)

	var filters []ast.Filter
	for p.cur.NextIf(lex.Pipe) {
		filterName, err := p.cur.Expect(lex.Literal)
		if err != nil {
			return nil, err
		}
		filter := ast.Filter{Name: filterName.Text}
		for isWordStart(p.cur.Peek().Kind) {
			arg, err := p.parseWord()
			if err != nil {
				return nil, err
			}
			filter.Args = append(filter.Args, arg)
		}
		filters = append(filters, filter)
	}
	if _, err := p.cur.Expect(lex.CloseBrace); err != nil {
		return nil, err
	}

	if len(filters) == 0 {
		return base, nil
	}
	return ast.ValuePipeline{Base: base, Filters: filters}, nil
}

// propertyOrVariable interprets a braced name, treating "object.key" as an
// indexed access.
func propertyOrVariable(name string) ast.Word {
	if object, key, ok := cutDot(name); ok {
		return ast.Property{Object: object, Key: key}
	}
	return ast.Variable{Name: name}
}

func cutDot(s string) (before, after string, ok bool) {
	if i := strings.Index(s, "."); i > 0 && i < len(s)-1 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// buildInterpolation turns a lexed interpolation token into a word. Nested
// subshell and value-pipeline units carry their own token streams, parsed
// here in isolation.
func (p *parser) buildInterpolation(t lex.Token) (ast.Word, error) {
	units := t.Units
	if t.Multiline {
		stripped, err := stripUnitIndent(units, t.Pos)
		if err != nil {
			return nil, err
		}
		units = stripped
	}

	word := ast.Interpolation{}
	for _, u := range units {
		switch u.Kind {
		case lex.UnitLiteral:
			word.Units = append(word.Units, ast.InterpolationUnit{Word: ast.Quoted{Value: u.Text}})
		case lex.UnitUnicode:
			word.Units = append(word.Units, ast.InterpolationUnit{Word: ast.Quoted{Value: string(u.Rune)}})
		case lex.UnitVariable:
			word.Units = append(word.Units, ast.InterpolationUnit{Word: ast.Variable{Name: u.Text}})
		case lex.UnitSubshell:
			sub := &parser{cur: newTokenCursor(u.Tokens)}
			body, err := sub.parseProgram(lex.Eof)
			if err != nil {
				return nil, err
			}
			word.Units = append(word.Units, ast.InterpolationUnit{Word: ast.SubshellWord{Body: body}})
		case lex.UnitPipeline:
			sub := &parser{cur: newTokenCursor(u.Tokens)}
			inner, err := sub.parseWord()
			if err != nil {
				return nil, err
			}
			word.Units = append(word.Units, ast.InterpolationUnit{Word: inner})
		}
	}
	return word, nil
}

// stripUnitIndent applies multiline indentation stripping across the literal
// units of a triple-backtick interpolation, leaving embedded variables and
// subshells untouched.
func stripUnitIndent(units []lex.InterpolationUnit, pos lex.Position) ([]lex.InterpolationUnit, error) {
	if len(units) == 0 {
		return units, nil
	}
	first := units[0]
	if first.Kind != lex.UnitLiteral || !strings.HasPrefix(first.Text, "\n") {
		return nil, errorf(pos, "multiline interpolation content must start on a new line")
	}

	rest := strings.TrimPrefix(first.Text, "\n")
	indent := rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]

	out := make([]lex.InterpolationUnit, len(units))
	copy(out, units)
	for i, u := range out {
		if u.Kind != lex.UnitLiteral {
			continue
		}
		text := u.Text
		if i == 0 {
			text = strings.TrimPrefix(text, "\n"+indent)
		}
		if i == len(out)-1 {
			text = strings.TrimSuffix(text, indent)
			text = strings.TrimSuffix(text, "\n")
		}
		out[i].Text = strings.ReplaceAll(text, "\n"+indent, "\n")
	}
	return out, nil
}

// errorf returns a position-carrying syntax error for failures that are not
// a simple expected-versus-found mismatch.
func errorf(pos lex.Position, format string, args ...interface{}) error {
	return &genericError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

type genericError struct {
	pos lex.Position
	msg string
}

func (e *genericError) Error() string {
	return fmt.Sprintf("%s: %s", e.pos, e.msg)
}
