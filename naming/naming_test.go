package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleXHP(t *testing.T) {
	cases := map[string]string{
		"my:widget":      "my_widget",
		":my:widget":     "my_widget",
		"ui:data-table":  "ui_data_table",
		"div":            "div",
		":x:frag:nested": "x_frag_nested",
	}
	for in, want := range cases {
		assert.Equal(t, want, MangleXHP(in), in)
	}
}

func TestIsXHPClassName(t *testing.T) {
	assert.True(t, IsXHPClassName(":my:widget"))
	assert.False(t, IsXHPClassName("my_widget"))
	assert.False(t, IsXHPClassName(":"))
}

func TestPseudoConsts(t *testing.T) {
	assert.True(t, IsPseudoConst(PseudoFile))
	assert.True(t, IsPseudoConst(PseudoLine))
	assert.False(t, IsPseudoConst("__CLASS__"))
	assert.Equal(t, "x", StripVariable("$x"))
	assert.Equal(t, ":href", XHPAttribute("href"))
}
