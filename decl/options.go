package decl

import "strings"

// Options controls what the declaration backend records.
type Options struct {
	// KeepUserAttributes keeps attributes whose names do not start with
	// "__". Builtin attributes are always kept.
	KeepUserAttributes bool `yaml:"keep_user_attributes"`
	// DisableXHPElementMangling keeps xhp class names as written.
	DisableXHPElementMangling bool `yaml:"disable_xhp_element_mangling"`
	// AutoNamespaceMap rewrites a leading namespace alias in names.
	AutoNamespaceMap map[string]string `yaml:"auto_namespace_map,omitempty"`
}

func DefaultOptions() *Options {
	return &Options{}
}

// ElaborateName applies AutoNamespaceMap to a declared or referenced name.
func (o *Options) ElaborateName(name string) string {
	if o == nil || len(o.AutoNamespaceMap) == 0 {
		return name
	}
	trimmed := strings.TrimPrefix(name, "\\")
	head, rest, found := strings.Cut(trimmed, "\\")
	if !found {
		return name
	}
	if target, ok := o.AutoNamespaceMap[head]; ok {
		return target + "\\" + rest
	}
	return name
}

func (o *Options) KeepsAttribute(name string) bool {
	return strings.HasPrefix(name, "__") || (o != nil && o.KeepUserAttributes)
}
