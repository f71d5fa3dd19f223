package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaoski/hackfront/types"
)

func kinds(toks []types.Token) []types.TokenKind {
	var ret []types.TokenKind
	for _, t := range toks {
		ret = append(ret, t.Kind)
	}
	return ret
}

func TestLexer(t *testing.T) {
	l := NewLexer("<?hh // strict\nclass Foo extends Bar<int> { const X = 1.5; } # trailing\n$x === 'a\\'b';")
	tokens := l.Tokens()

	assert.Equal(t, []types.TokenKind{
		types.MARKUP, types.CLASS, types.NAME, types.EXTENDS, types.NAME, types.LT, types.NAME, types.GT,
		types.LBRACE, types.CONST, types.NAME, types.EQUALS, types.FLOAT, types.SEMICOLON, types.RBRACE,
		types.VARIABLE, types.EQEQEQ, types.STRING, types.SEMICOLON,
	}, kinds(tokens))
	assert.Equal(t, "'a\\'b'", tokens[17].Text)
}

func TestLexerSpansSliceSource(t *testing.T) {
	src := "function  f(): void {}"
	l := NewLexer(src)
	for _, tok := range l.Tokens() {
		assert.Equal(t, tok.Text, src[tok.Offset:tok.End()])
	}
}

func TestLexerNeverProducesShiftRight(t *testing.T) {
	l := NewLexer("vec<vec<int>>")
	assert.Equal(t, []types.TokenKind{
		types.VEC, types.LT, types.VEC, types.LT, types.NAME, types.GT, types.GT,
	}, kinds(l.Tokens()))
}

func TestLexerXHPModes(t *testing.T) {
	l := NewLexer(`<my:widget data-id="x" {...$rest}>hello {$name}</my:widget>`)

	require.Equal(t, types.LT, l.Lex().Kind)
	name := l.LexMode(XHPName)
	assert.Equal(t, types.XHP_ELEMENT_NAME, name.Kind)
	assert.Equal(t, "my:widget", name.Text)

	attr := l.LexMode(XHPName)
	assert.Equal(t, "data-id", attr.Text)
	assert.Equal(t, types.EQUALS, l.Lex().Kind)
	assert.Equal(t, types.STRING, l.Lex().Kind)

	// Non-name input falls back to normal scanning.
	assert.Equal(t, types.LBRACE, l.LexMode(XHPName).Kind)
	assert.Equal(t, types.ELLIPSIS, l.Lex().Kind)
	assert.Equal(t, types.VARIABLE, l.Lex().Kind)
	assert.Equal(t, types.RBRACE, l.Lex().Kind)
	assert.Equal(t, types.GT, l.LexMode(XHPName).Kind)

	text := l.LexMode(XHPBody)
	assert.Equal(t, types.XHP_BODY, text.Kind)
	assert.Equal(t, "hello ", text.Text)
	assert.Equal(t, types.LBRACE, l.LexMode(XHPBody).Kind)
	assert.Equal(t, types.VARIABLE, l.Lex().Kind)
	assert.Equal(t, types.RBRACE, l.Lex().Kind)
	assert.Equal(t, types.LT_SLASH, l.LexMode(XHPBody).Kind)
	assert.Equal(t, "my:widget", l.LexMode(XHPName).Text)
	assert.Equal(t, types.GT, l.Lex().Kind)
	assert.Equal(t, types.EOF, l.Lex().Kind)
}

func TestPeekModeRescans(t *testing.T) {
	l := NewLexer(":ui:button;")
	assert.Equal(t, types.COLON, l.Peek().Kind)

	tok := l.PeekMode(XHPClassName)
	assert.Equal(t, types.XHP_CLASS_NAME, tok.Kind)
	assert.Equal(t, ":ui:button", tok.Text)

	l.LexMode(XHPClassName)
	assert.True(t, l.PeekIs(types.SEMICOLON))
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "plain", Unquote(`"plain"`))
	assert.Equal(t, "a\nb", Unquote(`"a\nb"`))
	assert.Equal(t, `it's \n`, Unquote(`'it\'s \n'`))
	assert.Equal(t, `back\slash`, Unquote(`'back\\slash'`))
	assert.Equal(t, "x", Unquote("x"))
}
