// Package parse builds a syntax tree from lexed tokens via recursive
// descent. Statements are separated by semicolons and line endings; the first
// syntax error aborts the input unit.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pjsh-lang/pjsh/core/ast"
	"github.com/pjsh-lang/pjsh/core/lex"
)

// Parse lexes and parses src into a program.
func Parse(src string) (*ast.Program, error) {
	tokens, err := lex.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses a lexed token stream into a program.
func ParseTokens(tokens []lex.Token) (*ast.Program, error) {
	p := &parser{cur: newTokenCursor(tokens)}
	prog, err := p.parseProgram(lex.Eof)
	if err != nil {
		return nil, err
	}
	if t := p.cur.Peek(); t.Kind != lex.Eof {
		return nil, &Error{Pos: t.Pos, Expected: "statement", Found: t}
	}
	return &prog, nil
}

type parser struct {
	cur *tokenCursor
}

// parseProgram parses statements until the until kind (or end of input) is
// seen. The terminator is left unconsumed.
func (p *parser) parseProgram(until lex.TokenKind) (ast.Program, error) {
	var prog ast.Program
	for {
		for p.cur.NextIf(lex.Eol) || p.cur.NextIf(lex.Semi) {
		}
		if t := p.cur.Peek(); t.Kind == until || t.Kind == lex.Eof {
			return prog, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return prog, err
		}
		prog.Statements = append(prog.Statements, stmt)

		switch t := p.cur.Peek(); t.Kind {
		case lex.Eol, lex.Semi, lex.Eof, until:
		default:
			return prog, &Error{Pos: t.Pos, Expected: "end of statement", Found: t}
		}
	}
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch t := p.cur.Peek(); {
	case t.Kind == lex.OpenParen:
		return p.parseSubshell()
	case t.Kind == lex.Literal:
		switch t.Text {
		case "if":
			return p.parseConditionalChain()
		case "switch":
			return p.parseSwitch()
		case "while":
			return p.parseWhile(false)
		case "until":
			return p.parseWhile(true)
		case "for":
			return p.parseFor()
		case "fn":
			return p.parseFunction()
		}
	}

	if stmt, ok, err := p.parseAssignment(); ok || err != nil {
		return stmt, err
	}

	chain, err := p.parseAndOrChain()
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// parseAssignment attempts to parse "name := value..." or "name ::= command".
// When the upcoming tokens are not an assignment the cursor is rewound and ok
// is false.
func (p *parser) parseAssignment() (ast.Statement, bool, error) {
	mark := p.cur.Mark()
	if !isWordStart(p.cur.Peek().Kind) {
		return nil, false, nil
	}
	name, err := p.parseWord()
	if err != nil {
		p.cur.Reset(mark)
		return nil, false, nil
	}

	switch p.cur.Peek().Kind {
	case lex.Assign:
		p.cur.Next()
		if p.cur.Peek().Kind == lex.OpenBracket {
			elements, err := p.parseListLiteral()
			if err != nil {
				return nil, true, err
			}
			return ast.Assignment{Name: name, Values: elements, List: true}, true, nil
		}
		var values []ast.Word
		for isWordStart(p.cur.Peek().Kind) {
			w, err := p.parseWord()
			if err != nil {
				return nil, true, err
			}
			values = append(values, w)
		}
		if len(values) == 0 {
			t := p.cur.Peek()
			return nil, true, &Error{Pos: t.Pos, Expected: "value", Found: t}
		}
		return ast.Assignment{Name: name, Values: values, List: len(values) > 1}, true, nil

	case lex.AssignResult:
		p.cur.Next()
		body, err := p.parseAndOrChain()
		if err != nil {
			return nil, true, err
		}
		return ast.CaptureAssignment{Name: name, Body: body}, true, nil
	}

	p.cur.Reset(mark)
	return nil, false, nil
}

func (p *parser) parseAndOrChain() (ast.AndOr, error) {
	var chain ast.AndOr
	pipeline, err := p.parsePipeline()
	if err != nil {
		return chain, err
	}
	chain.Pipelines = append(chain.Pipelines, pipeline)

	for {
		var op ast.AndOrOp
		switch p.cur.Peek().Kind {
		case lex.AndIf:
			op = ast.OpAnd
		case lex.OrIf:
			op = ast.OpOr
		default:
			return chain, nil
		}
		p.cur.Next()
		for p.cur.NextIf(lex.Eol) {
		}
		pipeline, err := p.parsePipeline()
		if err != nil {
			return chain, err
		}
		chain.Operators = append(chain.Operators, op)
		chain.Pipelines = append(chain.Pipelines, pipeline)
	}
}

func (p *parser) parsePipeline() (ast.Pipeline, error) {
	if p.cur.Peek().Kind == lex.PipeStart {
		return p.parseSmartPipeline()
	}

	var pipeline ast.Pipeline
	for {
		segment, err := p.parseSegment()
		if err != nil {
			return pipeline, err
		}
		pipeline.Segments = append(pipeline.Segments, segment)
		if !p.cur.NextIf(lex.Pipe) {
			break
		}
		// A trailing pipe continues the pipeline on the next line.
		for p.cur.NextIf(lex.Eol) {
		}
	}
	if p.cur.NextIf(lex.Amp) {
		pipeline.Async = true
	}
	return pipeline, nil
}

// parseSmartPipeline parses "->| cmd | cmd ;". Line endings act as
// whitespace until the terminating semicolon.
func (p *parser) parseSmartPipeline() (ast.Pipeline, error) {
	p.cur.Next()
	p.cur.PushNewlineIsWhitespace()
	defer p.cur.PopNewlineIsWhitespace()

	var pipeline ast.Pipeline
	for {
		segment, err := p.parseSegment()
		if err != nil {
			return pipeline, err
		}
		pipeline.Segments = append(pipeline.Segments, segment)
		if p.cur.NextIf(lex.Pipe) {
			continue
		}
		if p.cur.NextIf(lex.Amp) {
			pipeline.Async = true
		}
		if _, err := p.cur.Expect(lex.Semi); err != nil {
			return pipeline, err
		}
		return pipeline, nil
	}
}

// parseSegment parses one pipeline stage: a compact condition or a command.
func (p *parser) parseSegment() (ast.PipelineSegment, error) {
	if p.cur.Peek().Kind == lex.DoubleOpenBracket {
		words, err := p.parseCondition()
		if err != nil {
			return ast.PipelineSegment{}, err
		}
		return ast.PipelineSegment{Condition: words}, nil
	}
	cmd, err := p.parseCommand()
	if err != nil {
		return ast.PipelineSegment{}, err
	}
	return ast.PipelineSegment{Command: cmd}, nil
}

// parseCondition parses "[[ word... ]]". The words are matched against the
// known condition forms during evaluation. Line endings act as whitespace
// until the closing "]]".
func (p *parser) parseCondition() ([]ast.Word, error) {
	p.cur.Next()
	p.cur.PushNewlineIsWhitespace()
	defer p.cur.PopNewlineIsWhitespace()

	words := []ast.Word{}
	for isWordStart(p.cur.Peek().Kind) {
		w, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if _, err := p.cur.Expect(lex.DoubleCloseBracket); err != nil {
		return nil, err
	}
	return words, nil
}

func (p *parser) parseCommand() (ast.Command, error) {
	var cmd ast.Command
	for {
		switch t := p.cur.Peek(); t.Kind {
		case lex.FdReadTo, lex.FdWriteFrom, lex.FdAppendFrom:
			p.cur.Next()
			target, err := p.parseWord()
			if err != nil {
				return cmd, err
			}
			cmd.Redirects = append(cmd.Redirects, ast.Redirect{
				FD:     t.FD,
				Mode:   redirectMode(t.Kind),
				Target: target,
			})
		default:
			if !isWordStart(t.Kind) {
				if len(cmd.Args) == 0 && len(cmd.Redirects) == 0 {
					return cmd, &Error{Pos: t.Pos, Expected: "command", Found: t}
				}
				return cmd, nil
			}
			w, err := p.parseWord()
			if err != nil {
				return cmd, err
			}
			cmd.Args = append(cmd.Args, w)
		}
	}
}

func redirectMode(kind lex.TokenKind) ast.RedirectMode {
	switch kind {
	case lex.FdReadTo:
		return ast.RedirectRead
	case lex.FdAppendFrom:
		return ast.RedirectAppend
	default:
		return ast.RedirectWrite
	}
}

func (p *parser) parseSubshell() (ast.Statement, error) {
	p.cur.Next()
	body, err := p.parseProgram(lex.CloseParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.cur.Expect(lex.CloseParen); err != nil {
		return nil, err
	}
	return ast.Subshell{Body: body}, nil
}

func (p *parser) parseBlock() (ast.Program, error) {
	if _, err := p.cur.Expect(lex.OpenBrace); err != nil {
		return ast.Program{}, err
	}
	prog, err := p.parseProgram(lex.CloseBrace)
	if err != nil {
		return prog, err
	}
	if _, err := p.cur.Expect(lex.CloseBrace); err != nil {
		return prog, err
	}
	return prog, nil
}

func (p *parser) parseConditionalChain() (ast.Statement, error) {
	p.cur.Next()
	var chain ast.ConditionalChain
	for {
		condition, err := p.parseAndOrChain()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		chain.Conditions = append(chain.Conditions, condition)
		chain.Branches = append(chain.Branches, body)

		mark := p.cur.Mark()
		for p.cur.NextIf(lex.Eol) {
		}
		if t := p.cur.Peek(); t.Kind != lex.Literal || t.Text != "else" {
			p.cur.Reset(mark)
			return chain, nil
		}
		p.cur.Next()
		if t := p.cur.Peek(); t.Kind == lex.Literal && t.Text == "if" {
			p.cur.Next()
			continue
		}
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		chain.Branches = append(chain.Branches, elseBody)
		return chain, nil
	}
}

func (p *parser) parseSwitch() (ast.Statement, error) {
	p.cur.Next()
	subject, err := p.parseWord()
	if err != nil {
		return nil, err
	}
	if _, err := p.cur.Expect(lex.OpenBrace); err != nil {
		return nil, err
	}

	sw := ast.Switch{Subject: subject}
	for {
		for p.cur.NextIf(lex.Eol) || p.cur.NextIf(lex.Semi) {
		}
		t := p.cur.Peek()
		if t.Kind == lex.CloseBrace {
			p.cur.Next()
			return sw, nil
		}
		if t.Kind == lex.Eof {
			return nil, &Error{Pos: t.Pos, Expected: lex.CloseBrace.String(), Found: t}
		}

		if t.Kind == lex.Literal && t.Text == "default" {
			p.cur.Next()
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			sw.Default = &body
			continue
		}

		var patterns []ast.Word
		for {
			pattern, err := p.parseWord()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, pattern)
			if !p.cur.NextIf(lex.Pipe) {
				break
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, ast.SwitchCase{Patterns: patterns, Body: body})
	}
}

func (p *parser) parseWhile(until bool) (ast.Statement, error) {
	p.cur.Next()
	condition, err := p.parseAndOrChain()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.While{Condition: condition, Body: body, Until: until}, nil
}

var wordViews = map[string]ast.WordView{
	"chars": ast.ViewChars,
	"lines": ast.ViewLines,
	"words": ast.ViewWords,
}

func (p *parser) parseFor() (ast.Statement, error) {
	p.cur.Next()
	name, err := p.cur.Expect(lex.Literal)
	if err != nil {
		return nil, err
	}
	if kw := p.cur.Peek(); kw.Kind != lex.Literal || kw.Text != "in" {
		return nil, &Error{Pos: kw.Pos, Expected: `"in"`, Found: kw}
	}
	p.cur.Next()

	if t := p.cur.Peek(); t.Kind == lex.Literal {
		if view, ok := wordViews[t.Text]; ok {
			mark := p.cur.Mark()
			p.cur.Next()
			if of := p.cur.Peek(); of.Kind == lex.Literal && of.Text == "of" {
				p.cur.Next()
				source, err := p.parseWord()
				if err != nil {
					return nil, err
				}
				body, err := p.parseBlock()
				if err != nil {
					return nil, err
				}
				return ast.ForInOf{Variable: name.Text, View: view, Source: source, Body: body}, nil
			}
			p.cur.Reset(mark)
		}
	}

	iterable, err := p.parseIterable()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.ForIn{Variable: name.Text, Iterable: iterable, Body: body}, nil
}

var rangePattern = regexp.MustCompile(`^(-?\d+)\.\.=(-?\d+)$`)

func (p *parser) parseIterable() (ast.Iterable, error) {
	switch t := p.cur.Peek(); t.Kind {
	case lex.OpenBracket:
		elements, err := p.parseListLiteral()
		if err != nil {
			return nil, err
		}
		return ast.ListIterable{Elements: elements}, nil
	case lex.Variable:
		p.cur.Next()
		return ast.VariableIterable{Name: t.Text}, nil
	case lex.Literal:
		if m := rangePattern.FindStringSubmatch(t.Text); m != nil {
			p.cur.Next()
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			return ast.RangeIterable{Start: start, End: end}, nil
		}
	}
	t := p.cur.Peek()
	return nil, &Error{Pos: t.Pos, Expected: "iterable", Found: t}
}

func (p *parser) parseListLiteral() ([]ast.Word, error) {
	if _, err := p.cur.Expect(lex.OpenBracket); err != nil {
		return nil, err
	}
	p.cur.PushNewlineIsWhitespace()
	defer p.cur.PopNewlineIsWhitespace()

	elements := []ast.Word{}
	for isWordStart(p.cur.Peek().Kind) {
		w, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		elements = append(elements, w)
	}
	if _, err := p.cur.Expect(lex.CloseBracket); err != nil {
		return nil, err
	}
	return elements, nil
}

func (p *parser) parseFunction() (ast.Statement, error) {
	p.cur.Next()
	name, err := p.cur.Expect(lex.Literal)
	if err != nil {
		return nil, err
	}
	if _, err := p.cur.Expect(lex.OpenParen); err != nil {
		return nil, err
	}

	fn := ast.Function{Name: name.Text}
	for {
		if p.cur.NextIf(lex.CloseParen) {
			break
		}
		param, err := p.cur.Expect(lex.Literal)
		if err != nil {
			return nil, err
		}
		if rest := strings.TrimSuffix(param.Text, "..."); rest != param.Text {
			// The rest parameter must close the parameter list.
			if t := p.cur.Peek(); t.Kind != lex.CloseParen {
				return nil, &Error{Pos: t.Pos, Expected: lex.CloseParen.String(), Found: t}
			}
			fn.RestParam = rest
			continue
		}
		fn.Params = append(fn.Params, param.Text)
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func isWordStart(kind lex.TokenKind) bool {
	switch kind {
	case lex.Literal, lex.Variable, lex.Quote, lex.TripleQuote,
		lex.Interpolation, lex.DollarOpenParen, lex.DollarOpenBrace,
		lex.ProcessSubstitution, lex.Spread:
		return true
	}
	return false
}
