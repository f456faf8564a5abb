package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/pjsh-lang/pjsh/core/ast"
	"github.com/pjsh-lang/pjsh/core/filters"
	"github.com/pjsh-lang/pjsh/core/parse"
)

// ExpandCommand expands a command's words into argv strings. Interpolation
// happens first, then alias expansion of the leading word, then tilde and
// glob expansion of globbable words.
func (ctx *Context) ExpandCommand(cmd ast.Command) ([]string, error) {
	return ctx.ExpandWords(ctx.expandAliases(cmd.Args))
}

// ExpandWords expands words into argv strings without alias expansion. List
// values contribute one argument per element.
func (ctx *Context) ExpandWords(words []ast.Word) ([]string, error) {
	var argv []string
	for _, w := range words {
		expanded, err := ctx.expandWord(w)
		if err != nil {
			return nil, err
		}
		argv = append(argv, expanded...)
	}
	return argv, nil
}

// ExpandWordString expands a single word that must produce exactly one
// string, as for redirect targets and switch subjects.
func (ctx *Context) ExpandWordString(w ast.Word) (string, error) {
	v, err := ctx.wordValue(w)
	if err != nil {
		return "", err
	}
	if v.IsList {
		return "", fmt.Errorf("cannot use a list value as a single word")
	}
	return v.Word, nil
}

func (ctx *Context) expandWord(w ast.Word) ([]string, error) {
	v, err := ctx.wordValue(w)
	if err != nil {
		return nil, err
	}
	if v.IsList {
		return v.Items, nil
	}
	if w.Globbable() {
		return ctx.expandGlobbable(v.Word)
	}
	return []string{v.Word}, nil
}

// expandGlobbable applies tilde expansion, then pattern expansion. A pattern
// with no matches expands to zero words.
func (ctx *Context) expandGlobbable(text string) ([]string, error) {
	if text == "~" || strings.HasPrefix(text, "~/") {
		text = ctx.GetVar("HOME") + text[1:]
	}
	if !strings.Contains(text, "*") {
		return []string{text}, nil
	}
	return ctx.glob(text)
}

// wordValue reduces a word to a value, without glob expansion.
func (ctx *Context) wordValue(w ast.Word) (Value, error) {
	switch w := w.(type) {
	case ast.Literal:
		return Value{Word: w.Value}, nil

	case ast.Quoted:
		return Value{Word: w.Value}, nil

	case ast.Variable:
		v, _ := ctx.lookupVar(w.Name)
		return v, nil

	case ast.Property:
		return ctx.propertyValue(w)

	case ast.Interpolation:
		var text strings.Builder
		for _, unit := range w.Units {
			v, err := ctx.wordValue(unit.Word)
			if err != nil {
				return Value{}, err
			}
			text.WriteString(v.String())
		}
		return Value{Word: text.String()}, nil

	case ast.ValuePipeline:
		return ctx.pipelineValue(w)

	case ast.SubshellWord:
		out, _, err := ctx.captureProgram(w.Body)
		if err != nil {
			return Value{}, err
		}
		return Value{Word: strings.TrimSuffix(out, "\n")}, nil

	case ast.ProcessSubstitution:
		return ctx.processSubstitution(w)

	case ast.Spread:
		v, ok := ctx.Scope.Get(w.Name)
		if !ok {
			return filters.ListValue(nil), nil
		}
		if !v.IsList {
			return filters.ListValue([]string{v.Word}), nil
		}
		return v, nil

	default:
		return Value{}, fmt.Errorf("cannot expand %T", w)
	}
}

// propertyValue indexes a list-valued variable, as in "${names.0}".
func (ctx *Context) propertyValue(w ast.Property) (Value, error) {
	v, ok := ctx.Scope.Get(w.Object)
	if !ok {
		return Value{}, fmt.Errorf("undefined variable %q", w.Object)
	}
	if !v.IsList {
		return Value{}, fmt.Errorf("%s is not a list", w.Object)
	}
	i, err := strconv.Atoi(w.Key)
	if err != nil {
		return Value{}, fmt.Errorf("invalid list index %q", w.Key)
	}
	if i < 0 || i >= len(v.Items) {
		return Value{}, fmt.Errorf("index %d out of range for %s with %d element(s)", i, w.Object, len(v.Items))
	}
	return Value{Word: v.Items[i]}, nil
}

// pipelineValue threads a base value through the stages of a value pipeline.
func (ctx *Context) pipelineValue(w ast.ValuePipeline) (Value, error) {
	v, err := ctx.wordValue(w.Base)
	if err != nil {
		return Value{}, err
	}
	for _, stage := range w.Filters {
		f, ok := filters.Lookup(stage.Name)
		if !ok {
			return Value{}, fmt.Errorf("unknown filter %q", stage.Name)
		}
		args := make([]string, 0, len(stage.Args))
		for _, argWord := range stage.Args {
			arg, err := ctx.ExpandWordString(argWord)
			if err != nil {
				return Value{}, err
			}
			args = append(args, arg)
		}
		if v, err = f(v, args); err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

// processSubstitution runs a program with captured stdout and expands to the
// path of a temporary file holding the output.
func (ctx *Context) processSubstitution(w ast.ProcessSubstitution) (Value, error) {
	out, _, err := ctx.captureProgram(w.Body)
	if err != nil {
		return Value{}, err
	}
	f, err := afero.TempFile(ctx.FS, "", "pjsh-sub-")
	if err != nil {
		return Value{}, fmt.Errorf("process substitution: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(out); err != nil {
		return Value{}, fmt.Errorf("process substitution: %w", err)
	}
	return Value{Word: f.Name()}, nil
}

// expandAliases rewrites the leading word through the alias table. A guard
// set keeps self-referential aliases from recursing.
func (ctx *Context) expandAliases(words []ast.Word) []ast.Word {
	seen := make(map[string]bool)
	for {
		if len(words) == 0 {
			return words
		}
		head, ok := words[0].(ast.Literal)
		if !ok {
			return words
		}
		replacement, ok := ctx.Aliases[head.Value]
		if !ok || seen[head.Value] {
			return words
		}
		seen[head.Value] = true

		replacementWords := parseAliasWords(replacement)
		if len(replacementWords) == 0 {
			return words[1:]
		}
		words = append(append([]ast.Word{}, replacementWords...), words[1:]...)
	}
}

// parseAliasWords re-parses an alias replacement into words. Replacements
// that do not form a single command substitute as-is via a literal.
func parseAliasWords(replacement string) []ast.Word {
	prog, err := parse.Parse(replacement)
	if err != nil || len(prog.Statements) != 1 {
		return []ast.Word{ast.Literal{Value: replacement}}
	}
	chain, ok := prog.Statements[0].(ast.AndOr)
	if !ok || len(chain.Pipelines) != 1 || len(chain.Pipelines[0].Segments) != 1 {
		return []ast.Word{ast.Literal{Value: replacement}}
	}
	return chain.Pipelines[0].Segments[0].Command.Args
}
