package lepton

// Eval implements spec.md §4.1, `eval : Term -> Value`. When env has no
// local bindings, results are memoized (memo.go) keyed on the term
// together with env's current definition marker — sound because the
// Registry is read-only for the lifetime of a run (spec.md §5) and the
// only other input evalTerm consults for a closed term is that marker,
// and useful because the overload resolver (overload.go) and the
// dependent-result-type rules (infer.go) repeatedly re-evaluate the
// same declared parameter/result type terms.
func Eval(t Term, env *Env) (Value, error) {
	if env.locals == nil {
		if v, ok := env.memoLookup(t); ok {
			return v, nil
		}
		v, err := evalTerm(t, env)
		if err == nil {
			env.memoStore(t, v)
		}
		return v, err
	}
	return evalTerm(t, env)
}

func evalAll(ts []Term, env *Env) ([]Value, error) {
	vs := make([]Value, len(ts))
	for i, t := range ts {
		v, err := Eval(t, env)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// bindParams binds params, in order, each to the corresponding value
// in args, evaluating each parameter's declared type under the
// telescope built so far — the standard dependent-telescope binding
// used for function calls, inductive type formation and constructor
// argument typing.
func bindParams(params []Param, args []Value, env *Env) (*Env, error) {
	e := env
	for i, p := range params {
		pt, err := Eval(p.Type, e)
		if err != nil {
			return nil, err
		}
		e = e.WithLocal(p.Ident, Typed{Value: args[i], Type: pt})
	}
	return e, nil
}

func allValuesFinal(vs []Value) bool {
	for _, v := range vs {
		if !isFinalValue(v) {
			return false
		}
	}
	return true
}

func evalTerm(t Term, env *Env) (Value, error) {
	if err := env.enterDepth(); err != nil {
		return nil, err
	}
	defer env.exitDepth()

	switch n := t.(type) {
	case UniverseTerm:
		return VUniverse{}, nil
	case PrimitiveTerm:
		return VPrimitive{Lit: n.Lit}, nil
	case PrimitiveTypeTerm:
		return VPrimitiveType{Kind: n.Kind}, nil
	case VariableTerm:
		typed, ok := env.Lookup(n.Ident)
		if !ok {
			return nil, newErr(ErrUnboundVariable, nil, "unbound variable: %s", n.Ident)
		}
		return typed.Value, nil
	case PiTerm:
		pt, err := Eval(n.Param.Type, env)
		if err != nil {
			return nil, err
		}
		return VPi{ParamType: pt, Codomain: &Closure{Param: n.Param.Ident, ParamType: pt, Body: n.Codomain, Env: env}}, nil
	case SigmaTerm:
		pt, err := Eval(n.Param.Type, env)
		if err != nil {
			return nil, err
		}
		return VSigma{ParamType: pt, Codomain: &Closure{Param: n.Param.Ident, ParamType: pt, Body: n.Codomain, Env: env}}, nil
	case LambdaTerm:
		pt, err := Eval(n.Param.Type, env)
		if err != nil {
			return nil, err
		}
		return VLambda{ParamType: pt, Body: &Closure{Param: n.Param.Ident, ParamType: pt, Body: n.Body, Env: env}}, nil
	case OverloadedPiTerm:
		return evalOverloadedPi(n, env)
	case OverloadedLambdaTerm:
		return evalOverloadedLambda(n, env)
	case RecordTerm:
		fields := make([]VField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := Eval(f.Val, env)
			if err != nil {
				return nil, err
			}
			fields[i] = VField{Name: f.Name, Val: v}
		}
		return VRecord{Fields: fields}, nil
	case RecordTypeTerm:
		fields := make([]VField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := Eval(f.Val, env)
			if err != nil {
				return nil, err
			}
			fields[i] = VField{Name: f.Name, Val: v}
		}
		return VRecordType{Fields: fields}, nil
	case InductiveTypeTerm:
		args, err := evalAll(n.Args, env)
		if err != nil {
			return nil, err
		}
		return VInductiveType{Ind: n.Ind, Args: args}, nil
	case InductiveVariantTerm:
		indV, err := Eval(n.Inductive, env)
		if err != nil {
			return nil, err
		}
		if _, ok := indV.(VInductiveType); !ok {
			return nil, newErr(ErrNotAnInductive, nil, "variant's inductive does not evaluate to an inductive type")
		}
		args, err := evalAll(n.Args, env)
		if err != nil {
			return nil, err
		}
		return VInductiveVariant{Inductive: indV, Cons: n.Cons, Args: args}, nil
	case ProjectionTerm:
		return evalProjection(n, env)
	case ApplyTerm:
		return evalApply(n, env)
	case FunctionInvokeTerm:
		return evalFunctionInvoke(n, env)
	case OverloadInvokeTerm:
		return evalOverloadInvoke(n, env)
	case MatchTerm:
		return evalMatch(n, env)
	default:
		return nil, newErr(ErrInternal, nil, "eval: unhandled term %T", t)
	}
}

func evalProjection(n ProjectionTerm, env *Env) (Value, error) {
	r, err := Eval(n.Record, env)
	if err != nil {
		return nil, err
	}
	switch rv := r.(type) {
	case VRecord:
		for _, f := range rv.Fields {
			if f.Name == n.Field {
				return f.Val, nil
			}
		}
		return nil, newErr(ErrMissingField, nil, "record has no field %q", n.Field)
	case VNeutral:
		return VNeutral{Neutral: NProjection{Head: rv.Neutral, Field: n.Field}}, nil
	default:
		return nil, newErr(ErrNotARecord, nil, "projection on a non-record value")
	}
}

func evalApply(n ApplyTerm, env *Env) (Value, error) {
	fv, err := Eval(n.Fn, env)
	if err != nil {
		return nil, err
	}
	av, err := Eval(n.Arg, env)
	if err != nil {
		return nil, err
	}
	return applyValue(fv, av, n.Arg, env)
}

// applyValue implements spec.md §4.1's Apply cases directly on values,
// given the original argument Term (needed to re-infer its type where
// the spec calls for `infer(arg)`).
func applyValue(fv, av Value, argTerm Term, env *Env) (Value, error) {
	switch f := fv.(type) {
	case VLambda:
		argTy, err := Infer(argTerm, env)
		if err != nil {
			return nil, err
		}
		ok, err := Subtype(f.ParamType, argTy)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newErr(ErrTypeMismatch, nil, "argument type does not match parameter type")
		}
		return f.Body.Apply(av)
	case VOverloadedLambda:
		argTy, err := Infer(argTerm, env)
		if err != nil {
			return nil, err
		}
		entries := f.States.All()
		var matches []*overloadEntry
		for i := range entries {
			e := &entries[i]
			ok, err := Subtype(e.paramType, argTy)
			if err != nil {
				return nil, err
			}
			if ok {
				matches = append(matches, e)
			}
		}
		if len(matches) == 0 {
			return nil, newErr(ErrOverloadNoMatch, nil, "no overload state matches the argument type")
		}
		if len(matches) == 1 {
			return matches[0].closure.Apply(av)
		}
		env.Logger().Debug("collapsing overload states", "count", len(matches))
		merged, err := matches[0].closure.Apply(av)
		if err != nil {
			return nil, err
		}
		for _, m := range matches[1:] {
			r, err := m.closure.Apply(av)
			if err != nil {
				return nil, err
			}
			merged, err = mergeOverloadableValues(merged, r)
			if err != nil {
				return nil, err
			}
		}
		return merged, nil
	case VNeutral:
		return VNeutral{Neutral: NApply{Head: f.Neutral, Arg: av}}, nil
	default:
		return nil, newErr(ErrNotAFunction, nil, "cannot apply a non-function value")
	}
}

func evalOverloadedPi(n OverloadedPiTerm, env *Env) (Value, error) {
	m := newOverloadMap()
	for _, st := range n.States {
		pt, err := Eval(st.Param.Type, env)
		if err != nil {
			return nil, err
		}
		closure := &Closure{Param: st.Param.Ident, ParamType: pt, Body: st.Codomain, Env: env}
		if err := insertOverloadState(m, pt, closure); err != nil {
			return nil, err
		}
	}
	return VOverloadedPi{States: m}, nil
}

func evalOverloadedLambda(n OverloadedLambdaTerm, env *Env) (Value, error) {
	m := newOverloadMap()
	for _, st := range n.States {
		pt, err := Eval(st.Param.Type, env)
		if err != nil {
			return nil, err
		}
		closure := &Closure{Param: st.Param.Ident, ParamType: pt, Body: st.Body, Env: env}
		if err := insertOverloadState(m, pt, closure); err != nil {
			return nil, err
		}
	}
	return VOverloadedLambda{States: m}, nil
}

// invokeResolvedFunction implements the recursive-call-freeze and
// native/defined dispatch shared by FunctionInvoke and (once resolved)
// OverloadInvoke (spec.md §4.1, §4.8).
func invokeResolvedFunction(ref GlobalRef, fn *FunctionDef, argsV []Value, env *Env) (Value, error) {
	if cur := env.CurrentDefinition(); cur != nil && cur.Equal(ref) {
		return VNeutral{Neutral: NFunctionInvoke{Fn: ref, Args: argsV}}, nil
	}

	allFinal := allValuesFinal(argsV)
	if fn.Recursive && !allFinal {
		return VNeutral{Neutral: NFunctionInvoke{Fn: ref, Args: argsV}}, nil
	}

	if fn.Native != nil {
		if !allFinal {
			return VNeutral{Neutral: NFunctionInvoke{Fn: ref, Args: argsV}}, nil
		}
		env.Logger().Debug("invoking native function", "fn", ref.Name)
		return fn.Native(argsV)
	}

	base := env.Base().WithCurrentDefinition(ref)
	bodyEnv, err := bindParams(fn.Params, argsV, base)
	if err != nil {
		return nil, err
	}
	return Eval(fn.Body, bodyEnv)
}

func evalFunctionInvoke(n FunctionInvokeTerm, env *Env) (Value, error) {
	if cur := env.CurrentDefinition(); cur != nil && cur.Equal(n.Fn) {
		argsV, err := evalAll(n.Args, env)
		if err != nil {
			return nil, err
		}
		env.Logger().Debug("freezing recursive call", "fn", n.Fn.Name)
		return VNeutral{Neutral: NFunctionInvoke{Fn: n.Fn, Args: argsV}}, nil
	}
	fn, err := lookupFunctionDef(n.Fn, env)
	if err != nil {
		return nil, err
	}
	argsV, err := evalAll(n.Args, env)
	if err != nil {
		return nil, err
	}
	return invokeResolvedFunction(n.Fn, fn, argsV, env)
}

func evalOverloadInvoke(n OverloadInvokeTerm, env *Env) (Value, error) {
	overloaded, err := lookupOverloadedDef(n.Fn, env)
	if err != nil {
		return nil, err
	}
	chosen, err := resolveOverload(overloaded, n.Args, env)
	if err != nil {
		return nil, err
	}
	argsV, err := evalAll(n.Args, env)
	if err != nil {
		return nil, err
	}
	resolvedRef := GlobalRef{Name: chosen.Name, Kind: DefFunction}
	return invokeResolvedFunction(resolvedRef, chosen, argsV, env)
}
