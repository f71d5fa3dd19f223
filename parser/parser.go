package parser

import (
	"github.com/coreos/pkg/capnslog"

	"github.com/pontaoski/hackfront/errors"
	"github.com/pontaoski/hackfront/lexer"
	"github.com/pontaoski/hackfront/syntax"
	"github.com/pontaoski/hackfront/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/hackfront", "parser")

// Env carries the parser settings that change what is accepted.
type Env struct {
	EnableXHP             bool `yaml:"enable_xhp"`
	Codegen               bool `yaml:"codegen"`
	AllowUnstableFeatures bool `yaml:"allow_unstable_features"`
}

func DefaultEnv() Env {
	return Env{EnableXHP: true}
}

// StackLimit bounds how deeply productions may nest. A zero Max means no
// limit.
type StackLimit struct {
	Max int `yaml:"max"`
}

// Parser is the grammar driver. It knows nothing about what it builds: every
// token, gap and reduction is handed to the smart constructors.
type Parser[R any] struct {
	lex    *lexer.Lexer
	sc     SmartConstructors[R]
	env    Env
	limit  *StackLimit
	errors []errors.SyntaxError

	depth    int
	exceeded bool
}

func New[R any](src string, env Env, sc SmartConstructors[R], limit *StackLimit) *Parser[R] {
	return &Parser[R]{
		lex:   lexer.NewLexer(src),
		sc:    sc,
		env:   env,
		limit: limit,
	}
}

func (p *Parser[R]) Errors() []errors.SyntaxError {
	return p.errors
}

// StackLimitExceeded reports whether the parse was cut short.
func (p *Parser[R]) StackLimitExceeded() bool {
	return p.exceeded
}

func (p *Parser[R]) enter() bool {
	if p.exceeded {
		return false
	}
	if p.limit != nil && p.limit.Max > 0 && p.depth >= p.limit.Max {
		p.exceeded = true
		p.errorAt(p.lex.Peek().Span, errors.StackLimitError{Depth: p.limit.Max})
		plog.Debugf("stack limit %d reached at offset %d", p.limit.Max, p.lex.Offset())
		return false
	}
	p.depth++
	return true
}

func (p *Parser[R]) leave() {
	p.depth--
}

func (p *Parser[R]) errorAt(span types.Span, err error) {
	p.errors = append(p.errors, errors.SyntaxError{Location: span, Err: err})
}

// more reports whether a loop should keep going: input is left, the parse has
// not been cut short and the next token is none of the terminators.
func (p *Parser[R]) more(end ...types.TokenKind) bool {
	if p.exceeded || p.lex.PeekIs(types.EOF) {
		return false
	}
	return !p.lex.PeekIs(end...)
}

func (p *Parser[R]) token() R {
	return p.sc.MakeToken(p.lex.Lex())
}

func (p *Parser[R]) tokenMode(m lexer.Mode) R {
	return p.sc.MakeToken(p.lex.LexMode(m))
}

func (p *Parser[R]) missing() R {
	return p.sc.MakeMissing(p.lex.Offset())
}

func (p *Parser[R]) list(items []R) R {
	return p.sc.MakeList(items, p.lex.Offset())
}

func (p *Parser[R]) node(kind syntax.Kind, children ...R) R {
	return p.sc.MakeNode(kind, children)
}

// expect consumes the next token if it is one of kinds. Otherwise it records
// an error and stands in a missing node without consuming anything.
func (p *Parser[R]) expect(kinds ...types.TokenKind) R {
	return p.expectMode(lexer.Normal, kinds...)
}

func (p *Parser[R]) expectMode(m lexer.Mode, kinds ...types.TokenKind) R {
	tok := p.lex.PeekMode(m)
	for _, kind := range kinds {
		if tok.Kind == kind {
			return p.tokenMode(m)
		}
	}
	if !p.exceeded {
		p.errorAt(tok.Span, errors.ExpectedOneOfKindGotKind{Expected: kinds, Got: tok.Kind})
	}
	return p.missing()
}

func (p *Parser[R]) optional(kinds ...types.TokenKind) R {
	if p.lex.PeekIs(kinds...) {
		return p.token()
	}
	return p.missing()
}

// skip wraps the next token in an error node so a loop can make progress.
func (p *Parser[R]) skip(in string) R {
	tok := p.lex.Peek()
	p.errorAt(tok.Span, errors.UnexpectedToken{Got: tok.Kind, In: in})
	return p.node(syntax.Error, p.token())
}

// commaList parses item separated by commas, allowing a trailing comma before
// any of end.
func (p *Parser[R]) commaList(item func() R, end ...types.TokenKind) R {
	var items []R
	for p.more(end...) {
		before := p.lex.Offset()
		it := item()
		if !p.lex.PeekIs(types.COMMA) {
			items = append(items, p.node(syntax.ListItem, it, p.missing()))
			break
		}
		items = append(items, p.node(syntax.ListItem, it, p.token()))
		if p.lex.Offset() == before {
			break
		}
	}
	return p.list(items)
}

// sequence parses item until one of end, skipping tokens item cannot start
// with.
func (p *Parser[R]) sequence(in string, item func() R, end ...types.TokenKind) R {
	var items []R
	for p.more(end...) {
		before := p.lex.Offset()
		it := item()
		if p.lex.Offset() == before && !p.exceeded {
			items = append(items, p.skip(in))
			continue
		}
		items = append(items, it)
	}
	return p.list(items)
}

// ParseScript parses a whole file.
func (p *Parser[R]) ParseScript() R {
	markup := p.optional(types.MARKUP)
	decls := p.sequence("script", p.parseDeclaration)
	eof := p.missing()
	if p.lex.PeekIs(types.EOF) {
		eof = p.token()
	}
	return p.node(syntax.Script, markup, decls, eof)
}
