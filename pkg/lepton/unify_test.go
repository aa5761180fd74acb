package lepton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnifyStructural checks plain structural unification across a
// handful of value shapes, positive and negative.
func TestUnifyStructural(t *testing.T) {
	ok, err := Unify(VPrimitive{Lit: LitOfInt(1)}, VPrimitive{Lit: LitOfInt(1)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Unify(VPrimitive{Lit: LitOfInt(1)}, VPrimitive{Lit: LitOfInt(2)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Unify(VPrimitiveType{Kind: LitInt}, VPrimitiveType{Kind: LitString})
	require.NoError(t, err)
	assert.False(t, ok)

	a := VRecord{Fields: []VField{{Name: "a", Val: VPrimitive{Lit: LitOfInt(1)}}, {Name: "b", Val: VPrimitive{Lit: LitOfInt(2)}}}}
	b := VRecord{Fields: []VField{{Name: "b", Val: VPrimitive{Lit: LitOfInt(2)}}, {Name: "a", Val: VPrimitive{Lit: LitOfInt(1)}}}}
	ok, err = Unify(a, b)
	require.NoError(t, err)
	assert.True(t, ok, "record unification should be order-independent by field name")
}

// TestUnifyEta covers spec.md §8's Eta property directly on values:
// normalize(Lambda(x, Apply(f, x))) unifies with normalize(f) when x
// is not free in f.
func TestUnifyEta(t *testing.T) {
	env := newTestEnv()
	fIdent := NewIdent("f")
	intTy := VPrimitiveType{Kind: LitInt}
	fVal := VNeutral{Neutral: NVariable{Ident: fIdent}}

	x := NewIdent("x")
	etaExpanded := VLambda{
		ParamType: intTy,
		Body: &Closure{Param: x, ParamType: intTy, Body: ApplyTerm{Fn: VariableTerm{Ident: fIdent}, Arg: VariableTerm{Ident: x}},
			Env: env.WithLocal(fIdent, Typed{Value: fVal, Type: VPi{ParamType: intTy, Codomain: &Closure{Native: func(Value) (Value, error) { return intTy, nil }}}})},
	}

	ok, err := Unify(etaExpanded, fVal)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestNormalizeBetaAndIdempotence covers spec.md §8's Beta and
// Idempotence properties.
func TestNormalizeBetaAndIdempotence(t *testing.T) {
	env := newTestEnv()
	x := NewIdent("x")
	lam := LambdaTerm{Param: Param{Ident: x, Type: PrimitiveTypeTerm{Kind: LitInt}}, Body: VariableTerm{Ident: x}}
	call := ApplyTerm{Fn: lam, Arg: intLit(7)}

	normed, err := Normalize(call, env)
	require.NoError(t, err)
	assert.Equal(t, PrimitiveTerm{Lit: LitOfInt(7)}, normed)

	normedAgain, err := Normalize(normed, env)
	require.NoError(t, err)
	assert.Equal(t, normed, normedAgain)
}

// TestNormalizeAlphaInvariance covers spec.md §8's Alpha-invariance
// property: renaming a bound identifier never changes what a term
// normalizes to, up to unify.
func TestNormalizeAlphaInvariance(t *testing.T) {
	env := newTestEnv()
	x := NewIdent("x")
	y := NewIdent("y")
	lamX := LambdaTerm{Param: Param{Ident: x, Type: PrimitiveTypeTerm{Kind: LitInt}}, Body: VariableTerm{Ident: x}}
	lamY := LambdaTerm{Param: Param{Ident: y, Type: PrimitiveTypeTerm{Kind: LitInt}}, Body: VariableTerm{Ident: y}}

	vx, err := Eval(lamX, env)
	require.NoError(t, err)
	vy, err := Eval(lamY, env)
	require.NoError(t, err)

	ok, err := Unify(vx, vy)
	require.NoError(t, err)
	assert.True(t, ok)
}
