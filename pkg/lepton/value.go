package lepton

// Value is the semantic domain Term evaluates into (spec.md §3, §4.1).
// It is a sealed sum type mirroring Term, plus Neutral for stuck
// computations.
type Value interface {
	isValue()
}

// Closure pairs a binder with the environment it closed over at
// construction. Apply evaluates Body under Env extended with Param
// bound to the given argument.
//
// Native is an escape hatch for closures that have no single backing
// Term — the merge of two overload states, or the codomain of a Pi
// synthesized by infer from a bare Lambda term, where the "body" is a
// Go computation over the original Term rather than the Term itself.
// Exactly one of Body (with Env) or Native is set.
type Closure struct {
	Param     Ident
	ParamType Value
	Body      Term
	Env       *Env
	Native    func(Value) (Value, error)
}

// Apply evaluates (or otherwise runs) the closure body with Param bound
// to arg.
func (c *Closure) Apply(arg Value) (Value, error) {
	if c.Native != nil {
		return c.Native(arg)
	}
	return Eval(c.Body, c.Env.WithLocal(c.Param, Typed{Value: arg, Type: c.ParamType}))
}

type VUniverse struct{}

type VPrimitive struct{ Lit Literal }

type VPrimitiveType struct{ Kind LitKind }

type VPi struct {
	ParamType Value
	Codomain  *Closure
}

type VSigma struct {
	ParamType Value
	Codomain  *Closure
}

type VLambda struct {
	ParamType Value
	Body      *Closure
}

// VOverloadedPi and VOverloadedLambda carry their states in an
// OverloadMap rather than a plain slice: spec.md §9 explicitly rules
// out hashing on syntactic parameter type, so lookups go through
// unification with a hash-bucket prefilter (overloadmap.go).
type VOverloadedPi struct{ States *OverloadMap }

type VOverloadedLambda struct{ States *OverloadMap }

type VField struct {
	Name string
	Val  Value
}

type VRecord struct{ Fields []VField }

type VRecordType struct{ Fields []VField }

type VInductiveType struct {
	Ind  GlobalRef
	Args []Value
}

type VInductiveVariant struct {
	Inductive Value
	Cons      GlobalRef
	Args      []Value
}

// VNeutral wraps a stuck computation: a variable, or an elimination
// form applied to one (spec.md §3 "Neutral", §4.1).
type VNeutral struct{ Neutral Neutral }

func (VUniverse) isValue()         {}
func (VPrimitive) isValue()        {}
func (VPrimitiveType) isValue()    {}
func (VPi) isValue()               {}
func (VSigma) isValue()            {}
func (VLambda) isValue()           {}
func (VOverloadedPi) isValue()     {}
func (VOverloadedLambda) isValue() {}
func (VRecord) isValue()           {}
func (VRecordType) isValue()       {}
func (VInductiveType) isValue()    {}
func (VInductiveVariant) isValue() {}
func (VNeutral) isValue()          {}

// Neutral is a stuck computation: a free variable, or an elimination
// form (application, projection, a frozen recursive call, or a
// residualized match) whose head is itself a Neutral.
type Neutral interface {
	isNeutral()
}

type NVariable struct{ Ident Ident }

type NApply struct {
	Head Neutral
	Arg  Value
}

type NProjection struct {
	Head  Neutral
	Field string
}

// NFunctionInvoke is a call left unevaluated: a self-call inside the
// function's own body, or a call to a recursive or native function
// whose arguments are not all final (spec.md §4.1, §4.8).
type NFunctionInvoke struct {
	Fn   GlobalRef
	Args []Value
}

// ValuePattern mirrors Pattern at the value level, produced when a
// Match is residualized (spec.md §4.1 "Match", case "no clause
// decided and some scrutinee is not final").
type ValuePattern interface {
	isValuePattern()
}

type VPatternPrimitive struct{ Lit Literal }

// VPatternBind is a residualized binder: Ident is now bound, in the
// clause body's captured environment, to a neutral variable of Type.
type VPatternBind struct {
	Ident Ident
	Type  Value
}

type VPatternField struct {
	Name string
	Sub  ValuePattern
}

type VPatternCons struct {
	Cons GlobalRef
	Subs []ValuePattern
}

type VPatternRecord struct{ Fields []VPatternField }

func (VPatternPrimitive) isValuePattern() {}
func (VPatternBind) isValuePattern()      {}
func (VPatternCons) isValuePattern()      {}
func (VPatternRecord) isValuePattern()    {}

// ValueClause is a Clause whose patterns have been residualized and
// whose body has already been evaluated under the resulting bindings.
type ValueClause struct {
	Patterns []ValuePattern
	Body     Value
}

type NMatch struct {
	Scrutinees []Value
	Clauses    []ValueClause
}

func (NVariable) isNeutral()      {}
func (NApply) isNeutral()         {}
func (NProjection) isNeutral()    {}
func (NFunctionInvoke) isNeutral() {}
func (NMatch) isNeutral()         {}

// valuePatternToValue reconstructs the best-effort value a residualized
// pattern stands for, used only to type subsequent dependent
// constructor parameters during residualization (match.go). The Inductive field of any reconstructed VInductiveVariant
// is left zero: nothing downstream inspects it.
func valuePatternToValue(vp ValuePattern) Value {
	switch p := vp.(type) {
	case VPatternBind:
		return VNeutral{Neutral: NVariable{Ident: p.Ident}}
	case VPatternPrimitive:
		return VPrimitive{Lit: p.Lit}
	case VPatternCons:
		subs := make([]Value, len(p.Subs))
		for i, s := range p.Subs {
			subs[i] = valuePatternToValue(s)
		}
		return VInductiveVariant{Cons: p.Cons, Args: subs}
	case VPatternRecord:
		fields := make([]VField, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = VField{Name: f.Name, Val: valuePatternToValue(f.Sub)}
		}
		return VRecord{Fields: fields}
	default:
		return VUniverse{}
	}
}
