package lepton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDependentApplication covers spec.md §8 scenario 2: f : Pi(n :
// Int) -> Vec(n); infer(Apply(f, 2)) = normalize(Vec(2)).
func TestDependentApplication(t *testing.T) {
	env := newTestEnv()
	n := NewIdent("n")
	piTerm := PiTerm{
		Param:    Param{Ident: n, Type: PrimitiveTypeTerm{Kind: LitInt}},
		Codomain: InductiveTypeTerm{Ind: vecRef, Args: []Term{VariableTerm{Ident: n}}},
	}
	piVal, err := Eval(piTerm, env)
	require.NoError(t, err)

	f := NewIdent("f")
	fEnv := env.WithLocal(f, Typed{Value: VNeutral{Neutral: NVariable{Ident: f}}, Type: piVal})

	call := ApplyTerm{Fn: VariableTerm{Ident: f}, Arg: intLit(2)}
	got, err := Infer(call, fEnv)
	require.NoError(t, err)

	want, err := Eval(InductiveTypeTerm{Ind: vecRef, Args: []Term{intLit(2)}}, fEnv)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestOverloadResolution covers spec.md §8 scenario 4: show defined
// for Int and String picks the candidate matching the argument's type.
func TestOverloadResolution(t *testing.T) {
	env := newTestEnv()
	showInt := &FunctionDef{
		Name:       "show$int",
		Params:     []Param{{Ident: NewIdent("v"), Type: PrimitiveTypeTerm{Kind: LitInt}}},
		ResultType: PrimitiveTypeTerm{Kind: LitString},
		Native: func(args []Value) (Value, error) {
			return VPrimitive{Lit: LitOfString("int")}, nil
		},
	}
	showString := &FunctionDef{
		Name:       "show$string",
		Params:     []Param{{Ident: NewIdent("v"), Type: PrimitiveTypeTerm{Kind: LitString}}},
		ResultType: PrimitiveTypeTerm{Kind: LitString},
		Native: func(args []Value) (Value, error) {
			return VPrimitive{Lit: LitOfString("string")}, nil
		},
	}
	overloaded := &OverloadedDef{Name: "show", Candidates: []*FunctionDef{showInt, showString}}
	env.Registry().Register(overloaded)

	showRef := GlobalRef{Name: "show", Kind: DefOverloaded}

	v, err := Eval(OverloadInvokeTerm{Fn: showRef, Args: []Term{intLit(42)}}, env)
	require.NoError(t, err)
	assert.Equal(t, VPrimitive{Lit: LitOfString("int")}, v)

	v, err = Eval(OverloadInvokeTerm{Fn: showRef, Args: []Term{PrimitiveTerm{Lit: LitOfString("hi")}}}, env)
	require.NoError(t, err)
	assert.Equal(t, VPrimitive{Lit: LitOfString("string")}, v)
}

// TestOverloadNoMatch exercises resolveOverload's error path when no
// candidate's declared parameter type accepts the argument.
func TestOverloadNoMatch(t *testing.T) {
	env := newTestEnv()
	showInt := &FunctionDef{
		Name:       "show$int",
		Params:     []Param{{Ident: NewIdent("v"), Type: PrimitiveTypeTerm{Kind: LitInt}}},
		ResultType: PrimitiveTypeTerm{Kind: LitString},
		Native:     func(args []Value) (Value, error) { return VPrimitive{Lit: LitOfString("int")}, nil },
	}
	overloaded := &OverloadedDef{Name: "show", Candidates: []*FunctionDef{showInt}}
	env.Registry().Register(overloaded)
	showRef := GlobalRef{Name: "show", Kind: DefOverloaded}

	_, err := Eval(OverloadInvokeTerm{Fn: showRef, Args: []Term{PrimitiveTerm{Lit: LitOfBool(true)}}}, env)
	require.Error(t, err)
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrOverloadNoMatch, ce.Kind)
}

// TestInferMatchUnifiesClauseTypes ensures every clause is typed, and
// that clauses whose inferred types don't unify are rejected.
func TestInferMatchUnifiesClauseTypes(t *testing.T) {
	env := newTestEnv()
	nv := NewIdent("n")
	m := MatchTerm{
		Scrutinees: []Term{zeroTerm()},
		Clauses: []Clause{
			{Patterns: []Pattern{PatternCons{Cons: zeroRef}}, Body: intLit(0)},
			{Patterns: []Pattern{PatternCons{Cons: succRef, Subs: []Pattern{PatternBind{Ident: nv}}}}, Body: intLit(1)},
		},
	}
	ty, err := Infer(m, env)
	require.NoError(t, err)
	assert.Equal(t, VPrimitiveType{Kind: LitInt}, ty)

	bad := MatchTerm{
		Scrutinees: []Term{zeroTerm()},
		Clauses: []Clause{
			{Patterns: []Pattern{PatternCons{Cons: zeroRef}}, Body: intLit(0)},
			{Patterns: []Pattern{PatternCons{Cons: succRef, Subs: []Pattern{PatternBind{Ident: nv}}}}, Body: PrimitiveTerm{Lit: LitOfBool(true)}},
		},
	}
	_, err = Infer(bad, env)
	require.Error(t, err)
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrClauseTypeMismatch, ce.Kind)
}
