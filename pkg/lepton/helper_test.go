package lepton

import "github.com/lepton-lang/lepton-dev/internal/config"

// natRef/succRef/zeroRef/vecRef back a small inductive universe shared
// by several test files: Nat with Zero/Succ, and an indexed Vec family
// used for dependent-application scenarios, mirroring spec.md §8's own
// running examples.
var (
	natRef  = GlobalRef{Name: "Nat", Kind: DefInductive}
	zeroRef = GlobalRef{Name: "Zero", Kind: DefConstructor}
	succRef = GlobalRef{Name: "Succ", Kind: DefConstructor}
	vecRef  = GlobalRef{Name: "Vec", Kind: DefInductive}
)

func newTestEnv() *Env {
	reg := NewRegistry()
	registerNat(reg)
	registerVec(reg)
	return NewEnvWithConfig(reg, config.Default())
}

func registerNat(reg *Registry) {
	reg.Register(&InductiveDef{
		Name:       "Nat",
		ResultType: UniverseTerm{},
		Constructors: []*ConstructorDef{
			{Name: "Zero", Inductive: "Nat"},
			{Name: "Succ", Inductive: "Nat", Params: []Param{
				{Ident: NewIdent("n"), Type: InductiveTypeTerm{Ind: natRef}},
			}},
		},
	})
	reg.Register(&ConstructorDef{Name: "Zero", Inductive: "Nat"})
	reg.Register(&ConstructorDef{Name: "Succ", Inductive: "Nat", Params: []Param{
		{Ident: NewIdent("n"), Type: InductiveTypeTerm{Ind: natRef}},
	}})
}

func registerVec(reg *Registry) {
	n := NewIdent("n")
	reg.Register(&InductiveDef{
		Name:       "Vec",
		Params:     []Param{{Ident: n, Type: PrimitiveTypeTerm{Kind: LitInt}}},
		ResultType: UniverseTerm{},
	})
}

func natTerm() Term { return InductiveTypeTerm{Ind: natRef} }

func zeroTerm() Term {
	return InductiveVariantTerm{Inductive: natTerm(), Cons: zeroRef}
}

func succTerm(sub Term) Term {
	return InductiveVariantTerm{Inductive: natTerm(), Cons: succRef, Args: []Term{sub}}
}

func intLit(i int64) Term { return PrimitiveTerm{Lit: LitOfInt(i)} }
