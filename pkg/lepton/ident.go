package lepton

import (
	"fmt"

	"github.com/google/uuid"
)

// Ident is a local identifier. Equality is by identity (the embedded
// uuid), never by Name, so alpha-renaming and shadowing never collide.
type Ident struct {
	Name string
	id   uuid.UUID
}

// NewIdent allocates a local identifier with a fresh identity. Two
// idents built from the same name are never Equal to each other.
func NewIdent(name string) Ident {
	return Ident{Name: name, id: uuid.New()}
}

func (i Ident) Equal(o Ident) bool {
	return i.id == o.id
}

func (i Ident) String() string {
	return i.Name
}

// DefKind tags the species of definition a GlobalRef resolves to. The
// tag exists purely for ergonomic lookup (spec.md §9); Name is what
// actually keys the registry.
type DefKind int

const (
	DefFunction DefKind = iota
	DefOverloaded
	DefInductive
	DefConstructor
)

func (k DefKind) String() string {
	switch k {
	case DefFunction:
		return "function"
	case DefOverloaded:
		return "overloaded"
	case DefInductive:
		return "inductive"
	case DefConstructor:
		return "constructor"
	default:
		return fmt.Sprintf("DefKind(%d)", int(k))
	}
}

// GlobalRef is a qualified reference to a global definition.
type GlobalRef struct {
	Name string
	Kind DefKind
}

func (r GlobalRef) Equal(o GlobalRef) bool {
	return r.Name == o.Name && r.Kind == o.Kind
}

func (r GlobalRef) String() string {
	return r.Name
}
