package types

import (
	"fmt"
)

type Position struct {
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`
	Filename string `yaml:"filename,omitempty"`
}

// Span is a half-open byte range into the source text.
type Span struct {
	Offset int `yaml:"offset"`
	Width  int `yaml:"width"`
}

func (s Span) End() int {
	return s.Offset + s.Width
}

func (s Span) Contains(o Span) bool {
	return s.Offset <= o.Offset && o.End() <= s.End()
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	from, to := s.Offset, s.End()
	if o.Offset < from {
		from = o.Offset
	}
	if o.End() > to {
		to = o.End()
	}
	return Span{Offset: from, Width: to - from}
}

// Pos is a resolved source location, used once a tree leaves the byte-offset
// world of the parser.
type Pos struct {
	Span `yaml:",inline"`
	From Position `yaml:"from"`
	To   Position `yaml:"to"`
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	MARKUP

	VARIABLE
	NAME
	INT
	FLOAT
	STRING

	XHP_ELEMENT_NAME
	XHP_CLASS_NAME
	XHP_BODY

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	LT
	GT
	LTLT
	LT_SLASH
	SLASH_GT
	LTE
	GTE
	COMMA
	SEMICOLON
	COLON
	COLONCOLON
	QUESTION
	EQUALS
	EQEQ
	EQEQEQ
	BANGEQ
	BANGEQEQ
	BANG
	AMPAMP
	BARBAR
	FATARROW
	ARROW
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	PERIOD
	ELLIPSIS
	AT

	ABSTRACT
	AS
	ATTRIBUTE
	CLASS
	CONST
	ECHO
	ELSE
	ENUM
	EXTENDS
	FINAL
	FUNCTION
	IF
	IMPLEMENTS
	INTERFACE
	INTERNAL
	MODULE
	NEW
	NEWTYPE
	PRIVATE
	PROTECTED
	PUBLIC
	REQUIRE
	RETURN
	SHAPE
	STATIC
	SUPER
	TRAIT
	TYPE
	USE
	VEC
	WHERE
	XHP
)

var tokenNames = map[TokenKind]string{
	EOF:              "EOF",
	ILLEGAL:          "ILLEGAL",
	MARKUP:           "MARKUP",
	VARIABLE:         "VARIABLE",
	NAME:             "NAME",
	INT:              "INT",
	FLOAT:            "FLOAT",
	STRING:           "STRING",
	XHP_ELEMENT_NAME: "XHP_ELEMENT_NAME",
	XHP_CLASS_NAME:   "XHP_CLASS_NAME",
	XHP_BODY:         "XHP_BODY",
	LPAREN:           "(",
	RPAREN:           ")",
	LBRACE:           "{",
	RBRACE:           "}",
	LBRACKET:         "[",
	RBRACKET:         "]",
	LT:               "<",
	GT:               ">",
	LTLT:             "<<",
	LT_SLASH:         "</",
	SLASH_GT:         "/>",
	LTE:              "<=",
	GTE:              ">=",
	COMMA:            ",",
	SEMICOLON:        ";",
	COLON:            ":",
	COLONCOLON:       "::",
	QUESTION:         "?",
	EQUALS:           "=",
	EQEQ:             "==",
	EQEQEQ:           "===",
	BANGEQ:           "!=",
	BANGEQEQ:         "!==",
	BANG:             "!",
	AMPAMP:           "&&",
	BARBAR:           "||",
	FATARROW:         "=>",
	ARROW:            "->",
	PLUS:             "+",
	MINUS:            "-",
	STAR:             "*",
	SLASH:            "/",
	PERCENT:          "%",
	PERIOD:           ".",
	ELLIPSIS:         "...",
	AT:               "@",
	ABSTRACT:         "abstract",
	AS:               "as",
	ATTRIBUTE:        "attribute",
	CLASS:            "class",
	CONST:            "const",
	ECHO:             "echo",
	ELSE:             "else",
	ENUM:             "enum",
	EXTENDS:          "extends",
	FINAL:            "final",
	FUNCTION:         "function",
	IF:               "if",
	IMPLEMENTS:       "implements",
	INTERFACE:        "interface",
	INTERNAL:         "internal",
	MODULE:           "module",
	NEW:              "new",
	NEWTYPE:          "newtype",
	PRIVATE:          "private",
	PROTECTED:        "protected",
	PUBLIC:           "public",
	REQUIRE:          "require",
	RETURN:           "return",
	SHAPE:            "shape",
	STATIC:           "static",
	SUPER:            "super",
	TRAIT:            "trait",
	TYPE:             "type",
	USE:              "use",
	VEC:              "vec",
	WHERE:            "where",
	XHP:              "xhp",
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]TokenKind{}

func init() {
	for kind := ABSTRACT; kind <= XHP; kind++ {
		Keywords[tokenNames[kind]] = kind
	}
}

func (t TokenKind) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

func (t TokenKind) IsKeyword() bool {
	return t >= ABSTRACT && t <= XHP
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("[%d+%d]", s.Offset, s.Width)
}

func (p Pos) String() string {
	return fmt.Sprintf("%s-%d:%d", p.From, p.To.Line, p.To.Column)
}

// Token is a lexeme; Text is a substring of the source, never a copy.
type Token struct {
	Kind TokenKind
	Span
	Text string
}

// Mode is the file mode declared in the <?hh header.
type Mode int

const (
	Mstrict Mode = iota
	Mpartial
	Mdecl
	Mhhi
)

var modeNames = map[Mode]string{
	Mstrict:  "strict",
	Mpartial: "partial",
	Mdecl:    "decl",
	Mhhi:     "hhi",
}

func (m Mode) String() string {
	return modeNames[m]
}

func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if name == s {
			return m, true
		}
	}
	return Mstrict, false
}

func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, ok := ParseMode(s)
	if !ok {
		return fmt.Errorf("unknown file mode %q", s)
	}
	*m = parsed
	return nil
}
