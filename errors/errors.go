package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/hackfront/types"
)

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
}

func (e ExpectedOneOfKindGotKind) Error() string {
	var names []string
	for _, kind := range e.Expected {
		names = append(names, kind.String())
	}
	if len(names) == 1 {
		return fmt.Sprintf("got %s, expected %s", e.Got, names[0])
	}
	return fmt.Sprintf("got %s, expected one of %s", e.Got, strings.Join(names, ", "))
}

// SyntaxError is a recoverable parse error. The parser collects these next to a
// best-effort tree instead of stopping.
type SyntaxError struct {
	Location types.Span
	Err      error
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s %s", e.Location, e.Err)
}

func (e SyntaxError) Unwrap() error {
	return e.Err
}

type MismatchedCloseTag struct {
	Open  string
	Close string
}

func (e MismatchedCloseTag) Error() string {
	return fmt.Sprintf("closing tag </%s> does not match <%s>", e.Close, e.Open)
}

type UnexpectedToken struct {
	Got types.TokenKind
	In  string
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected %s in %s", e.Got, e.In)
}

// StackLimitError is recorded once when the parser refuses to descend further.
type StackLimitError struct {
	Depth int
}

func (e StackLimitError) Error() string {
	return fmt.Sprintf("stack limit of %d nested productions exceeded", e.Depth)
}
