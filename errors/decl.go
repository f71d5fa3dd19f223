package errors

import (
	"fmt"

	"github.com/pontaoski/hackfront/types"
)

type DeclErrorKind string

const (
	UnboundAncestor   DeclErrorKind = "unbound_ancestor"
	TypeArityMismatch DeclErrorKind = "type_arity_mismatch"
	CyclicInheritance DeclErrorKind = "cyclic_inheritance"
	TraitConflict     DeclErrorKind = "trait_conflict"
	DuplicateMember   DeclErrorKind = "duplicate_member"
)

// DeclError is recorded on a folded class; folding carries on with a degraded
// declaration.
type DeclError struct {
	Kind    DeclErrorKind `yaml:"kind"`
	Name    string        `yaml:"name"`
	Pos     types.Span    `yaml:"pos"`
	Message string        `yaml:"message"`
}

func (e DeclError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewUnboundAncestor(class, ancestor string, at types.Span) DeclError {
	return DeclError{
		Kind:    UnboundAncestor,
		Name:    ancestor,
		Pos:     at,
		Message: fmt.Sprintf("class %s has unknown ancestor %s", class, ancestor),
	}
}

func NewTypeArityMismatch(ancestor string, expected, got int, at types.Span) DeclError {
	return DeclError{
		Kind:    TypeArityMismatch,
		Name:    ancestor,
		Pos:     at,
		Message: fmt.Sprintf("%s expects %d type arguments, got %d", ancestor, expected, got),
	}
}

func NewCyclicInheritance(class string, cycle []string, at types.Span) DeclError {
	return DeclError{
		Kind:    CyclicInheritance,
		Name:    class,
		Pos:     at,
		Message: fmt.Sprintf("cyclic inheritance: %v", cycle),
	}
}

func NewTraitConflict(member, first, second string, at types.Span) DeclError {
	return DeclError{
		Kind:    TraitConflict,
		Name:    member,
		Pos:     at,
		Message: fmt.Sprintf("member %s is provided by both %s and %s", member, first, second),
	}
}

func NewDuplicateMember(class, member string, at types.Span) DeclError {
	return DeclError{
		Kind:    DuplicateMember,
		Name:    member,
		Pos:     at,
		Message: fmt.Sprintf("member %s specified more than once in %s", member, class),
	}
}

// InternalError marks a broken compiler invariant rather than a problem in
// user code.
type InternalError struct {
	Pass    string
	Message string
	At      types.Pos
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error in %s at %s: %s", e.Pass, e.At, e.Message)
}
