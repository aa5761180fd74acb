package lepton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadBackPiFreshensBinder checks that each read-back of a Pi picks
// a fresh display name for its binder, and that the codomain refers to
// that binder, per spec.md §9 "Fresh names" / §4.6.
func TestReadBackPiFreshensBinder(t *testing.T) {
	env := newTestEnv()
	n := NewIdent("n")
	pi := PiTerm{Param: Param{Ident: n, Type: PrimitiveTypeTerm{Kind: LitInt}}, Codomain: VariableTerm{Ident: n}}
	v, err := Eval(pi, env)
	require.NoError(t, err)

	t1, err := ReadBack(v, env)
	require.NoError(t, err)
	t2, err := ReadBack(v, env)
	require.NoError(t, err)

	pi1, ok := t1.(PiTerm)
	require.True(t, ok)
	pi2, ok := t2.(PiTerm)
	require.True(t, ok)
	assert.NotEqual(t, pi1.Param.Ident.Name, pi2.Param.Ident.Name, "two independent read-backs must not repeat a display name")

	body1, ok := pi1.Codomain.(VariableTerm)
	require.True(t, ok)
	assert.Equal(t, pi1.Param.Ident.Name, body1.Ident.Name)
}

// TestReadBackOverloadedPi checks every state of a superposition is
// reified, each under its own fresh binder.
func TestReadBackOverloadedPi(t *testing.T) {
	env := newTestEnv()
	a := NewIdent("a")
	b := NewIdent("b")
	term := OverloadedPiTerm{States: []OverloadedPiState{
		{Param: Param{Ident: a, Type: PrimitiveTypeTerm{Kind: LitInt}}, Codomain: PrimitiveTypeTerm{Kind: LitString}},
		{Param: Param{Ident: b, Type: PrimitiveTypeTerm{Kind: LitBool}}, Codomain: PrimitiveTypeTerm{Kind: LitString}},
	}}
	v, err := Eval(term, env)
	require.NoError(t, err)

	t1, err := ReadBack(v, env)
	require.NoError(t, err)
	opi, ok := t1.(OverloadedPiTerm)
	require.True(t, ok)
	assert.Len(t, opi.States, 2)
}

// TestNormalizeRecord checks a record's fields are each normalized
// independently, preserving field names.
func TestNormalizeRecord(t *testing.T) {
	env := newTestEnv()
	x := NewIdent("x")
	lam := LambdaTerm{Param: Param{Ident: x, Type: PrimitiveTypeTerm{Kind: LitInt}}, Body: VariableTerm{Ident: x}}
	rec := RecordTerm{Fields: []Field{{Name: "n", Val: ApplyTerm{Fn: lam, Arg: intLit(5)}}}}

	normed, err := Normalize(rec, env)
	require.NoError(t, err)
	recT, ok := normed.(RecordTerm)
	require.True(t, ok)
	require.Len(t, recT.Fields, 1)
	assert.Equal(t, "n", recT.Fields[0].Name)
	assert.Equal(t, PrimitiveTerm{Lit: LitOfInt(5)}, recT.Fields[0].Val)
}
