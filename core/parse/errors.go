package parse

import (
	"errors"
	"fmt"

	"github.com/pjsh-lang/pjsh/core/lex"
)

// ErrIncomplete marks input that ended inside an open construct. Interactive
// callers read a continuation line and retry; non-interactive callers treat
// it as a syntax error.
var ErrIncomplete = errors.New("incomplete input")

// Error is a syntax error at a known position.
type Error struct {
	Pos      lex.Position
	Expected string
	Found    lex.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, describeToken(e.Found))
}

// Unwrap exposes ErrIncomplete when the error was caused by running out of
// input.
func (e *Error) Unwrap() error {
	if e.Found.Kind == lex.Eof {
		return ErrIncomplete
	}
	return nil
}

// IsIncomplete reports whether err indicates input that may be completed by
// reading more lines.
func IsIncomplete(err error) bool {
	if errors.Is(err, ErrIncomplete) {
		return true
	}
	var lexErr *lex.Error
	return errors.As(err, &lexErr) && lexErr.Incomplete
}

func describeToken(t lex.Token) string {
	switch t.Kind {
	case lex.Literal, lex.Variable:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Kind.String()
	}
}
