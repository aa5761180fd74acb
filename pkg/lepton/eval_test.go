package lepton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIdentityOnInt covers spec.md §8 scenario 1: eval(id(3)) ->
// Primitive(3); infer(id(3)) -> PrimitiveType(Int).
func TestIdentityOnInt(t *testing.T) {
	env := newTestEnv()
	x := NewIdent("x")
	id := LambdaTerm{Param: Param{Ident: x, Type: PrimitiveTypeTerm{Kind: LitInt}}, Body: VariableTerm{Ident: x}}
	call := ApplyTerm{Fn: id, Arg: intLit(3)}

	v, err := Eval(call, env)
	require.NoError(t, err)
	assert.Equal(t, VPrimitive{Lit: LitOfInt(3)}, v)

	ty, err := Infer(call, env)
	require.NoError(t, err)
	assert.Equal(t, VPrimitiveType{Kind: LitInt}, ty)
}

// TestRecordProjection covers spec.md §8 scenario 5.
func TestRecordProjection(t *testing.T) {
	env := newTestEnv()
	rec := RecordTerm{Fields: []Field{{Name: "a", Val: intLit(1)}, {Name: "b", Val: intLit(2)}}}

	v, err := Eval(ProjectionTerm{Record: rec, Field: "a"}, env)
	require.NoError(t, err)
	assert.Equal(t, VPrimitive{Lit: LitOfInt(1)}, v)

	_, err = Eval(ProjectionTerm{Record: rec, Field: "c"}, env)
	require.Error(t, err)
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrMissingField, ce.Kind)
}

// TestNonExhaustiveMatch covers spec.md §8 scenario 6: a final
// scrutinee with no applicable clause errors; a neutral one
// residualizes instead.
func TestNonExhaustiveMatch(t *testing.T) {
	env := newTestEnv()
	m := MatchTerm{
		Scrutinees: []Term{PrimitiveTerm{Lit: LitOfBool(true)}},
		Clauses: []Clause{
			{Patterns: []Pattern{PatternPrimitive{Lit: LitOfBool(false)}}, Body: intLit(0)},
		},
	}
	_, err := Eval(m, env)
	require.Error(t, err)
	var ce *CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrNonExhaustiveMatch, ce.Kind)

	xv := NewIdent("x")
	boolTy := VPrimitiveType{Kind: LitBool}
	neutralEnv := env.WithLocal(xv, Typed{Value: VNeutral{Neutral: NVariable{Ident: xv}}, Type: boolTy})
	m2 := MatchTerm{
		Scrutinees: []Term{VariableTerm{Ident: xv}},
		Clauses:    m.Clauses,
	}
	v, err := Eval(m2, neutralEnv)
	require.NoError(t, err)
	_, ok := v.(VNeutral)
	assert.True(t, ok, "expected a residualized neutral match, got %T", v)
}

// TestPatternResidualization covers spec.md §8 scenario 3: matching a
// neutral Nat residualizes, typing the Succ clause's bound variable as
// Nat and evaluating its body under that binding.
func TestPatternResidualization(t *testing.T) {
	env := newTestEnv()
	xv := NewIdent("x")
	natTy := VInductiveType{Ind: natRef}
	neutralEnv := env.WithLocal(xv, Typed{Value: VNeutral{Neutral: NVariable{Ident: xv}}, Type: natTy})

	nv := NewIdent("n")
	m := MatchTerm{
		Scrutinees: []Term{VariableTerm{Ident: xv}},
		Clauses: []Clause{
			{Patterns: []Pattern{PatternCons{Cons: zeroRef}}, Body: intLit(0)},
			{Patterns: []Pattern{PatternCons{Cons: succRef, Subs: []Pattern{PatternBind{Ident: nv}}}}, Body: VariableTerm{Ident: nv}},
		},
	}

	v, err := Eval(m, neutralEnv)
	require.NoError(t, err)
	nv2, ok := v.(VNeutral)
	require.True(t, ok)
	nm, ok := nv2.Neutral.(NMatch)
	require.True(t, ok)
	require.Len(t, nm.Clauses, 2)

	succClause := nm.Clauses[1]
	require.Len(t, succClause.Patterns, 1)
	cons, ok := succClause.Patterns[0].(VPatternCons)
	require.True(t, ok)
	require.Len(t, cons.Subs, 1)
	bind, ok := cons.Subs[0].(VPatternBind)
	require.True(t, ok)
	assert.Equal(t, natTy, bind.Type)

	// the clause body ("n") evaluated under that binding is the fresh
	// neutral variable itself.
	bodyVar, ok := succClause.Body.(VNeutral)
	require.True(t, ok)
	nvar, ok := bodyVar.Neutral.(NVariable)
	require.True(t, ok)
	assert.True(t, nvar.Ident.Equal(bind.Ident))
}

// TestRecursionFreeze covers spec.md §8's recursion-freeze universal
// property: inside f's own body, invoking f again yields a frozen
// neutral rather than unfolding forever.
func TestRecursionFreeze(t *testing.T) {
	env := newTestEnv()
	fRef := GlobalRef{Name: "loop", Kind: DefFunction}
	nv := NewIdent("n")
	fn := &FunctionDef{
		Name:       "loop",
		Params:     []Param{{Ident: nv, Type: InductiveTypeTerm{Ind: natRef}}},
		ResultType: InductiveTypeTerm{Ind: natRef},
		Recursive:  true,
		Body:       FunctionInvokeTerm{Fn: fRef, Args: []Term{succTerm(VariableTerm{Ident: nv})}},
	}
	env.Registry().Register(fn)

	xv := NewIdent("x")
	neutralEnv := env.WithLocal(xv, Typed{Value: VNeutral{Neutral: NVariable{Ident: xv}}, Type: VInductiveType{Ind: natRef}})
	v, err := Eval(FunctionInvokeTerm{Fn: fRef, Args: []Term{VariableTerm{Ident: xv}}}, neutralEnv)
	require.NoError(t, err)
	nv2, ok := v.(VNeutral)
	require.True(t, ok)
	nfi, ok := nv2.Neutral.(NFunctionInvoke)
	require.True(t, ok)
	assert.True(t, nfi.Fn.Equal(fRef))
}
