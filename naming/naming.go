// Package naming holds the name conventions shared by the declaration pass and
// the markup rewrite.
package naming

import "strings"

const (
	PseudoFile = "__FILE__"
	PseudoLine = "__LINE__"
)

var xhpReplacer = strings.NewReplacer(":", "_", "-", "_")

// MangleXHP turns a markup element name into the class name that implements
// it: my:widget and :my:widget both become my_widget.
func MangleXHP(name string) string {
	return xhpReplacer.Replace(strings.TrimPrefix(name, ":"))
}

// IsXHPClassName reports whether name is written in :element form.
func IsXHPClassName(name string) bool {
	return len(name) > 1 && name[0] == ':'
}

// XHPAttribute is the property name an xhp attribute declaration introduces.
func XHPAttribute(name string) string {
	return ":" + name
}

// StripVariable drops the leading $ of a property name.
func StripVariable(name string) string {
	return strings.TrimPrefix(name, "$")
}

func IsPseudoConst(name string) bool {
	return name == PseudoFile || name == PseudoLine
}
