package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pontaoski/hackfront/types"
)

// Mode selects how the next token is scanned. Markup is context sensitive, so
// the parser picks the mode for every token it asks for.
type Mode int

const (
	Normal Mode = iota
	// XHPName scans element and attribute names such as my:widget or data-id.
	XHPName
	// XHPClassName scans :my:widget style class references.
	XHPClassName
	// XHPBody scans raw text up to the next '<' or '{'.
	XHPBody
)

type peeked struct {
	mode Mode
	tok  types.Token
	next int
}

type Lexer struct {
	src    string
	offset int
	peeked *peeked
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Offset is the position right after the last consumed token.
func (l *Lexer) Offset() int {
	return l.offset
}

func (l *Lexer) Peek() types.Token {
	return l.PeekMode(Normal)
}

func (l *Lexer) PeekMode(m Mode) types.Token {
	if l.peeked != nil && l.peeked.mode == m {
		return l.peeked.tok
	}

	tok, next := l.scan(m, l.offset)
	l.peeked = &peeked{mode: m, tok: tok, next: next}

	return tok
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

// PeekSecond looks one token past the normal-mode peek.
func (l *Lexer) PeekSecond() types.Token {
	l.Peek()
	tok, _ := l.scan(Normal, l.peeked.next)
	return tok
}

func (l *Lexer) Lex() types.Token {
	return l.LexMode(Normal)
}

func (l *Lexer) LexMode(m Mode) types.Token {
	tok := l.PeekMode(m)
	l.offset = l.peeked.next
	l.peeked = nil
	return tok
}

func (l *Lexer) token(kind types.TokenKind, from, to int) (types.Token, int) {
	return types.Token{
		Kind: kind,
		Span: types.Span{Offset: from, Width: to - from},
		Text: l.src[from:to],
	}, to
}

func (l *Lexer) at(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func (l *Lexer) skipTrivia(i int) int {
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '#' || (c == '/' && l.at(i+1) == '/'):
			for i < len(l.src) && l.src[i] != '\n' {
				i++
			}
		case c == '/' && l.at(i+1) == '*':
			end := strings.Index(l.src[i+2:], "*/")
			if end < 0 {
				return len(l.src)
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}

func firstChar(r rune) bool {
	return r == '_' || r == '\\' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func xhpChar(r rune) bool {
	return otherChar(r) && r != '\\' || r == ':' || r == '-'
}

func (l *Lexer) runWhile(i int, pred func(rune) bool) int {
	for i < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[i:])
		if !pred(r) {
			break
		}
		i += size
	}
	return i
}

func (l *Lexer) scan(m Mode, from int) (types.Token, int) {
	switch m {
	case XHPBody:
		return l.scanXHPBody(from)
	case XHPName:
		i := l.skipTrivia(from)
		r, _ := utf8.DecodeRuneInString(l.src[i:])
		if i < len(l.src) && (unicode.IsLetter(r) || r == '_') {
			return l.token(types.XHP_ELEMENT_NAME, i, l.runWhile(i, xhpChar))
		}
		return l.scanNormal(i)
	case XHPClassName:
		i := l.skipTrivia(from)
		r, _ := utf8.DecodeRuneInString(l.src[min(i+1, len(l.src)):])
		if l.at(i) == ':' && (unicode.IsLetter(r) || r == '_') {
			return l.token(types.XHP_CLASS_NAME, i, l.runWhile(i+1, xhpChar))
		}
		return l.scanNormal(i)
	}
	return l.scanNormal(from)
}

func (l *Lexer) scanXHPBody(i int) (types.Token, int) {
	switch {
	case i >= len(l.src):
		return l.token(types.EOF, i, i)
	case l.src[i] == '<' && l.at(i+1) == '/':
		return l.token(types.LT_SLASH, i, i+2)
	case l.src[i] == '<':
		return l.token(types.LT, i, i+1)
	case l.src[i] == '{':
		return l.token(types.LBRACE, i, i+1)
	}

	end := strings.IndexAny(l.src[i:], "<{")
	if end < 0 {
		end = len(l.src) - i
	}
	return l.token(types.XHP_BODY, i, i+end)
}

var punctuation = []struct {
	text string
	kind types.TokenKind
}{
	{"...", types.ELLIPSIS},
	{"===", types.EQEQEQ},
	{"!==", types.BANGEQEQ},
	{"<<", types.LTLT},
	{"<=", types.LTE},
	{">=", types.GTE},
	{"/>", types.SLASH_GT},
	{"==", types.EQEQ},
	{"=>", types.FATARROW},
	{"!=", types.BANGEQ},
	{"&&", types.AMPAMP},
	{"||", types.BARBAR},
	{"->", types.ARROW},
	{"::", types.COLONCOLON},
	{"(", types.LPAREN},
	{")", types.RPAREN},
	{"{", types.LBRACE},
	{"}", types.RBRACE},
	{"[", types.LBRACKET},
	{"]", types.RBRACKET},
	{"<", types.LT},
	{">", types.GT},
	{",", types.COMMA},
	{";", types.SEMICOLON},
	{":", types.COLON},
	{"?", types.QUESTION},
	{"=", types.EQUALS},
	{"!", types.BANG},
	{"+", types.PLUS},
	{"-", types.MINUS},
	{"*", types.STAR},
	{"/", types.SLASH},
	{"%", types.PERCENT},
	{".", types.PERIOD},
	{"@", types.AT},
}

func (l *Lexer) scanNormal(from int) (types.Token, int) {
	i := l.skipTrivia(from)
	if i >= len(l.src) {
		return l.token(types.EOF, i, i)
	}

	rest := l.src[i:]
	r, size := utf8.DecodeRuneInString(rest)

	switch {
	case strings.HasPrefix(rest, "<?hh"):
		return l.token(types.MARKUP, i, i+4)
	case r == '$':
		end := l.runWhile(i+1, func(r rune) bool { return otherChar(r) && r != '\\' })
		if end == i+1 {
			return l.token(types.ILLEGAL, i, end)
		}
		return l.token(types.VARIABLE, i, end)
	case unicode.IsDigit(r):
		end := l.runWhile(i, unicode.IsDigit)
		if l.at(end) == '.' && unicode.IsDigit(rune(l.at(end+1))) {
			return l.token(types.FLOAT, i, l.runWhile(end+1, unicode.IsDigit))
		}
		return l.token(types.INT, i, end)
	case r == '\'' || r == '"':
		return l.scanString(i, byte(r))
	case firstChar(r):
		end := l.runWhile(i, otherChar)
		if kind, ok := types.Keywords[l.src[i:end]]; ok {
			return l.token(kind, i, end)
		}
		return l.token(types.NAME, i, end)
	}

	for _, p := range punctuation {
		if strings.HasPrefix(rest, p.text) {
			return l.token(p.kind, i, i+len(p.text))
		}
	}

	return l.token(types.ILLEGAL, i, i+size)
}

func (l *Lexer) scanString(from int, quote byte) (types.Token, int) {
	i := from + 1
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return l.token(types.STRING, from, i+1)
		}
		i++
	}
	return l.token(types.ILLEGAL, from, len(l.src))
}

// Tokens lexes the rest of the input in normal mode.
func (l *Lexer) Tokens() (ret []types.Token) {
	for t := l.Lex(); t.Kind != types.EOF; t = l.Lex() {
		ret = append(ret, t)
	}
	return
}

// Unquote returns the value of a STRING token's text. Double quoted strings
// take Go-compatible escapes; single quoted ones only \' and \\.
func Unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	inner := text[1 : len(text)-1]
	if !strings.Contains(inner, "\\") {
		return inner
	}
	if text[0] == '"' {
		if s, err := strconv.Unquote(text); err == nil {
			return s
		}
		return inner
	}
	return strings.NewReplacer(`\'`, `'`, `\\`, `\`).Replace(inner)
}
