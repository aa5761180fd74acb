package lepton

import "fmt"

// LitKind tags the species of a Literal / LiteralType (spec.md §3,
// "Literal", "primitive types").
type LitKind int

const (
	LitUnit LitKind = iota
	LitBool
	LitInt
	LitFloat
	LitChar
	LitString
)

func (k LitKind) String() string {
	switch k {
	case LitUnit:
		return "Unit"
	case LitBool:
		return "Bool"
	case LitInt:
		return "Int"
	case LitFloat:
		return "Float"
	case LitChar:
		return "Char"
	case LitString:
		return "String"
	default:
		return fmt.Sprintf("LitKind(%d)", int(k))
	}
}

// Literal is a primitive value: unit, bool, int, float, char or string.
// Exactly the fields matching Kind are meaningful.
type Literal struct {
	Kind LitKind
	B    bool
	I    int64
	F    float64
	C    rune
	S    string
}

func LitOfUnit() Literal              { return Literal{Kind: LitUnit} }
func LitOfBool(b bool) Literal        { return Literal{Kind: LitBool, B: b} }
func LitOfInt(i int64) Literal        { return Literal{Kind: LitInt, I: i} }
func LitOfFloat(f float64) Literal    { return Literal{Kind: LitFloat, F: f} }
func LitOfChar(c rune) Literal        { return Literal{Kind: LitChar, C: c} }
func LitOfString(s string) Literal    { return Literal{Kind: LitString, S: s} }

// Type returns the primitive type this literal inhabits.
func (l Literal) Type() LiteralType {
	return LiteralType{Kind: l.Kind}
}

func (l Literal) Equal(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case LitUnit:
		return true
	case LitBool:
		return l.B == o.B
	case LitInt:
		return l.I == o.I
	case LitFloat:
		return l.F == o.F
	case LitChar:
		return l.C == o.C
	case LitString:
		return l.S == o.S
	default:
		return false
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case LitUnit:
		return "()"
	case LitBool:
		return fmt.Sprintf("%t", l.B)
	case LitInt:
		return fmt.Sprintf("%d", l.I)
	case LitFloat:
		return fmt.Sprintf("%g", l.F)
	case LitChar:
		return fmt.Sprintf("%q", l.C)
	case LitString:
		return fmt.Sprintf("%q", l.S)
	default:
		return "<invalid literal>"
	}
}

// LiteralType is the type of a Literal, i.e. one of the built-in
// primitive types (spec.md §3).
type LiteralType struct {
	Kind LitKind
}

func (t LiteralType) Equal(o LiteralType) bool { return t.Kind == o.Kind }
func (t LiteralType) String() string           { return t.Kind.String() }
