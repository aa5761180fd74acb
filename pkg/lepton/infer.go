package lepton

// Infer implements spec.md §4.2, `infer : Term -> Value`, interleaving
// evaluation with inference exactly as the spec describes (types are
// themselves Values, computed via Eval where structural recursion
// bottoms out).
func Infer(t Term, env *Env) (Value, error) {
	switch n := t.(type) {
	case UniverseTerm, PiTerm, SigmaTerm, OverloadedPiTerm, RecordTypeTerm:
		_ = n
		return VUniverse{}, nil
	case PrimitiveTypeTerm:
		return VUniverse{}, nil
	case PrimitiveTerm:
		return VPrimitiveType{Kind: n.Lit.Kind}, nil
	case VariableTerm:
		if typed, ok := env.Lookup(n.Ident); ok {
			return typed.Type, nil
		}
		return nil, newErr(ErrUnboundVariable, nil, "unbound variable: %s", n.Ident)
	case FunctionInvokeTerm:
		return inferFunctionInvoke(n, env)
	case OverloadInvokeTerm:
		return inferOverloadInvoke(n, env)
	case InductiveTypeTerm:
		return inferInductiveType(n, env)
	case InductiveVariantTerm:
		return Eval(n.Inductive, env)
	case MatchTerm:
		return inferMatch(n, env)
	case RecordTerm:
		fields := make([]VField, len(n.Fields))
		for i, f := range n.Fields {
			ty, err := Infer(f.Val, env)
			if err != nil {
				return nil, err
			}
			fields[i] = VField{Name: f.Name, Val: ty}
		}
		return VRecordType{Fields: fields}, nil
	case ApplyTerm:
		return inferApply(n, env)
	case LambdaTerm:
		return inferLambda(n, env)
	case OverloadedLambdaTerm:
		return inferOverloadedLambda(n, env)
	case ProjectionTerm:
		return inferProjection(n, env)
	default:
		return nil, newErr(ErrInternal, nil, "infer: unhandled term %T", t)
	}
}

func inferFunctionInvoke(n FunctionInvokeTerm, env *Env) (Value, error) {
	fn, err := lookupFunctionDef(n.Fn, env)
	if err != nil {
		return nil, err
	}
	argsV, err := evalAll(n.Args, env)
	if err != nil {
		return nil, err
	}
	bodyEnv, err := bindParams(fn.Params, argsV, env.Base())
	if err != nil {
		return nil, err
	}
	return Eval(fn.ResultType, bodyEnv)
}

// inferOverloadInvoke evaluates the chosen overload's declared result
// type under a binding of each of its parameters to a fresh neutral of
// its declared type, per spec.md §4.2 literally — unlike
// inferFunctionInvoke, it does not substitute the actual argument
// values, so a dependent result type is only as specific as the
// chosen candidate's own parameter names allow.
func inferOverloadInvoke(n OverloadInvokeTerm, env *Env) (Value, error) {
	overloaded, err := lookupOverloadedDef(n.Fn, env)
	if err != nil {
		return nil, err
	}
	chosen, err := resolveOverload(overloaded, n.Args, env)
	if err != nil {
		return nil, err
	}
	e := env.Base()
	for _, p := range chosen.Params {
		pt, err := Eval(p.Type, e)
		if err != nil {
			return nil, err
		}
		e = e.WithLocal(p.Ident, Typed{Value: VNeutral{Neutral: NVariable{Ident: p.Ident}}, Type: pt})
	}
	return Eval(chosen.ResultType, e)
}

func inferInductiveType(n InductiveTypeTerm, env *Env) (Value, error) {
	def, ok := env.Registry().Lookup(n.Ind.Name)
	if !ok {
		return nil, newErr(ErrUnboundVariable, nil, "unbound inductive: %s", n.Ind.Name)
	}
	ind, ok := def.(*InductiveDef)
	if !ok {
		return nil, newErr(ErrNotAnInductive, nil, "%s is not an inductive", n.Ind.Name)
	}
	argsV, err := evalAll(n.Args, env)
	if err != nil {
		return nil, err
	}
	bodyEnv, err := bindParams(ind.Params, argsV, env.Base())
	if err != nil {
		return nil, err
	}
	return Eval(ind.ResultType, bodyEnv)
}

// inferMatch types every clause regardless of which would actually
// fire at runtime: each clause's patterns are residualized against the
// scrutinees' inferred types (not their values), its body is inferred
// under the resulting bindings, and every clause's type must unify
// with the first (spec.md §4.2, "Match").
func inferMatch(n MatchTerm, env *Env) (Value, error) {
	scrutTypes := make([]Value, len(n.Scrutinees))
	for i, s := range n.Scrutinees {
		ty, err := Infer(s, env)
		if err != nil {
			return nil, err
		}
		scrutTypes[i] = ty
	}
	var first Value
	for ci, cl := range n.Clauses {
		if len(cl.Patterns) != len(scrutTypes) {
			return nil, newErr(ErrClauseTypeMismatch, nil, "clause arity does not match scrutinee count")
		}
		bodyEnv := env
		for j, pat := range cl.Patterns {
			_, nextEnv, err := residualizePattern(pat, scrutTypes[j], bodyEnv)
			if err != nil {
				return nil, err
			}
			bodyEnv = nextEnv
		}
		ty, err := Infer(cl.Body, bodyEnv)
		if err != nil {
			return nil, err
		}
		if ci == 0 {
			first = ty
			continue
		}
		ok, err := Unify(first, ty)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newErr(ErrClauseTypeMismatch, nil, "match clauses infer incompatible types")
		}
	}
	if first == nil {
		return nil, newErr(ErrClauseTypeMismatch, nil, "match has no clauses")
	}
	return first, nil
}

func inferApply(n ApplyTerm, env *Env) (Value, error) {
	fty, err := Infer(n.Fn, env)
	if err != nil {
		return nil, err
	}
	switch ft := fty.(type) {
	case VPi:
		argTy, err := Infer(n.Arg, env)
		if err != nil {
			return nil, err
		}
		ok, err := Unify(ft.ParamType, argTy)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newErr(ErrTypeMismatch, nil, "argument type does not unify with parameter type")
		}
		argV, err := Eval(n.Arg, env)
		if err != nil {
			return nil, err
		}
		return ft.Codomain.Apply(argV)
	case VOverloadedPi:
		argTy, err := Infer(n.Arg, env)
		if err != nil {
			return nil, err
		}
		entries := ft.States.All()
		var candidates []*overloadEntry
		for i := range entries {
			e := &entries[i]
			ok, err := Subtype(e.paramType, argTy)
			if err != nil {
				return nil, err
			}
			if ok {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) == 0 {
			return nil, newErr(ErrOverloadNoMatch, nil, "no overloaded Pi state matches the argument type")
		}
		// Keep candidates with no strictly more specific other
		// candidate. Written generally (not shortcut to a length
		// check) even though today's Subtype == Unify is symmetric,
		// making this currently equivalent to "all candidates are
		// minimal" — ready for an asymmetric Subtype without changes
		// here (see DESIGN.md, Open Question: subtype vs unify).
		var minimal []*overloadEntry
		for _, c := range candidates {
			isMin := true
			for _, other := range candidates {
				if other == c {
					continue
				}
				otherLEc, err := Subtype(other.paramType, c.paramType)
				if err != nil {
					return nil, err
				}
				if otherLEc {
					cLEother, err := Subtype(c.paramType, other.paramType)
					if err != nil {
						return nil, err
					}
					if !cLEother {
						isMin = false
						break
					}
				}
			}
			if isMin {
				minimal = append(minimal, c)
			}
		}
		if len(minimal) != 1 {
			return nil, newErr(ErrOverloadAmbiguous, nil, "multiple valid overloaded Pi states")
		}
		argV, err := Eval(n.Arg, env)
		if err != nil {
			return nil, err
		}
		return minimal[0].closure.Apply(argV)
	default:
		return nil, newErr(ErrNotAFunction, nil, "cannot apply a non-function type")
	}
}

// inferLambda builds Pi(pt, v => infer(body) under param:=Typed{v,pt})
// (spec.md §4.2, "Lambda"). The codomain closure has no single backing
// Term — it is a Go computation over the original body Term — so it
// uses Closure's Native escape hatch rather than Body/Env.
func inferLambda(n LambdaTerm, env *Env) (Value, error) {
	pt, err := Eval(n.Param.Type, env)
	if err != nil {
		return nil, err
	}
	body, param := n.Body, n.Param.Ident
	codomain := &Closure{ParamType: pt, Native: func(v Value) (Value, error) {
		return Infer(body, env.WithLocal(param, Typed{Value: v, Type: pt}))
	}}
	return VPi{ParamType: pt, Codomain: codomain}, nil
}

func inferOverloadedLambda(n OverloadedLambdaTerm, env *Env) (Value, error) {
	m := newOverloadMap()
	for _, st := range n.States {
		pt, err := Eval(st.Param.Type, env)
		if err != nil {
			return nil, err
		}
		body, param := st.Body, st.Param.Ident
		closure := &Closure{ParamType: pt, Native: func(v Value) (Value, error) {
			return Infer(body, env.WithLocal(param, Typed{Value: v, Type: pt}))
		}}
		if err := insertOverloadState(m, pt, closure); err != nil {
			return nil, err
		}
	}
	return VOverloadedPi{States: m}, nil
}

func inferProjection(n ProjectionTerm, env *Env) (Value, error) {
	rty, err := Infer(n.Record, env)
	if err != nil {
		return nil, err
	}
	rt, ok := rty.(VRecordType)
	if !ok {
		return nil, newErr(ErrNotARecord, nil, "projection on a non-record type")
	}
	for _, f := range rt.Fields {
		if f.Name == n.Field {
			return f.Val, nil
		}
	}
	return nil, newErr(ErrMissingField, nil, "record type has no field %q", n.Field)
}
