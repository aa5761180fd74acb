package lepton

// ReadBack implements spec.md §4.1 alongside Eval: `readBack : Value ->
// Term`, reifying a Value back into a Term, picking a fresh display
// name at every binder so no two binders introduced by one call ever
// collide (spec.md §4.6, §9 "Fresh names").
func ReadBack(v Value, env *Env) (Term, error) {
	switch val := v.(type) {
	case VUniverse:
		return UniverseTerm{}, nil
	case VPrimitive:
		return PrimitiveTerm{Lit: val.Lit}, nil
	case VPrimitiveType:
		return PrimitiveTypeTerm{Kind: val.Kind}, nil
	case VPi:
		return readBackBinder(val.ParamType, val.Codomain, env, func(p Param, body Term) Term {
			return PiTerm{Param: p, Codomain: body}
		})
	case VSigma:
		return readBackBinder(val.ParamType, val.Codomain, env, func(p Param, body Term) Term {
			return SigmaTerm{Param: p, Codomain: body}
		})
	case VLambda:
		return readBackBinder(val.ParamType, val.Body, env, func(p Param, body Term) Term {
			return LambdaTerm{Param: p, Body: body}
		})
	case VOverloadedPi:
		states, err := readBackStates(val.States, env)
		if err != nil {
			return nil, err
		}
		piStates := make([]OverloadedPiState, len(states))
		for i, s := range states {
			piStates[i] = OverloadedPiState{Param: s.param, Codomain: s.body}
		}
		return OverloadedPiTerm{States: piStates}, nil
	case VOverloadedLambda:
		states, err := readBackStates(val.States, env)
		if err != nil {
			return nil, err
		}
		lamStates := make([]OverloadedLambdaState, len(states))
		for i, s := range states {
			lamStates[i] = OverloadedLambdaState{Param: s.param, Body: s.body}
		}
		return OverloadedLambdaTerm{States: lamStates}, nil
	case VRecord:
		fields, err := readBackVFields(val.Fields, env)
		if err != nil {
			return nil, err
		}
		return RecordTerm{Fields: fields}, nil
	case VRecordType:
		fields, err := readBackVFields(val.Fields, env)
		if err != nil {
			return nil, err
		}
		return RecordTypeTerm{Fields: fields}, nil
	case VInductiveType:
		args, err := readBackAll(val.Args, env)
		if err != nil {
			return nil, err
		}
		return InductiveTypeTerm{Ind: val.Ind, Args: args}, nil
	case VInductiveVariant:
		indTerm, err := ReadBack(val.Inductive, env)
		if err != nil {
			return nil, err
		}
		args, err := readBackAll(val.Args, env)
		if err != nil {
			return nil, err
		}
		return InductiveVariantTerm{Inductive: indTerm, Cons: val.Cons, Args: args}, nil
	case VNeutral:
		return readBackNeutral(val.Neutral, env)
	default:
		return nil, newErr(ErrInternal, nil, "readBack: unhandled value %T", v)
	}
}

// Normalize implements spec.md §4.3: `normalize = readBack . eval`.
func Normalize(t Term, env *Env) (Term, error) {
	v, err := Eval(t, env)
	if err != nil {
		return nil, err
	}
	return ReadBack(v, env)
}

func readBackAll(vs []Value, env *Env) ([]Term, error) {
	ts := make([]Term, len(vs))
	for i, v := range vs {
		t, err := ReadBack(v, env)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

func readBackVFields(fs []VField, env *Env) ([]Field, error) {
	out := make([]Field, len(fs))
	for i, f := range fs {
		t, err := ReadBack(f.Val, env)
		if err != nil {
			return nil, err
		}
		out[i] = Field{Name: f.Name, Val: t}
	}
	return out, nil
}

// closureBaseName picks the name to freshen a binder's display name
// from: the original parameter name for a syntactic closure, or a
// generic placeholder for a Native one (which has no original Term to
// draw a name from).
func closureBaseName(c *Closure) string {
	if c.Native != nil {
		return "x"
	}
	return c.Param.Name
}

func readBackBinder(paramType Value, closure *Closure, env *Env, build func(Param, Term) Term) (Term, error) {
	ptTerm, err := ReadBack(paramType, env)
	if err != nil {
		return nil, err
	}
	fresh := env.FreshIdent(closureBaseName(closure))
	argV := VNeutral{Neutral: NVariable{Ident: fresh}}
	bodyV, err := closure.Apply(argV)
	if err != nil {
		return nil, err
	}
	bodyTerm, err := ReadBack(bodyV, env)
	if err != nil {
		return nil, err
	}
	return build(Param{Ident: fresh, Type: ptTerm}, bodyTerm), nil
}

type readBackState struct {
	param Param
	body  Term
}

func readBackStates(m *OverloadMap, env *Env) ([]readBackState, error) {
	entries := m.All()
	out := make([]readBackState, 0, len(entries))
	for _, e := range entries {
		ptTerm, err := ReadBack(e.paramType, env)
		if err != nil {
			return nil, err
		}
		fresh := env.FreshIdent(closureBaseName(e.closure))
		argV := VNeutral{Neutral: NVariable{Ident: fresh}}
		bodyV, err := e.closure.Apply(argV)
		if err != nil {
			return nil, err
		}
		bodyTerm, err := ReadBack(bodyV, env)
		if err != nil {
			return nil, err
		}
		out = append(out, readBackState{param: Param{Ident: fresh, Type: ptTerm}, body: bodyTerm})
	}
	return out, nil
}

func readBackNeutral(n Neutral, env *Env) (Term, error) {
	switch nv := n.(type) {
	case NVariable:
		return VariableTerm{Ident: nv.Ident}, nil
	case NApply:
		headTerm, err := readBackNeutral(nv.Head, env)
		if err != nil {
			return nil, err
		}
		argTerm, err := ReadBack(nv.Arg, env)
		if err != nil {
			return nil, err
		}
		return ApplyTerm{Fn: headTerm, Arg: argTerm}, nil
	case NProjection:
		headTerm, err := readBackNeutral(nv.Head, env)
		if err != nil {
			return nil, err
		}
		return ProjectionTerm{Record: headTerm, Field: nv.Field}, nil
	case NFunctionInvoke:
		args, err := readBackAll(nv.Args, env)
		if err != nil {
			return nil, err
		}
		return FunctionInvokeTerm{Fn: nv.Fn, Args: args}, nil
	case NMatch:
		scruts, err := readBackAll(nv.Scrutinees, env)
		if err != nil {
			return nil, err
		}
		clauses := make([]Clause, len(nv.Clauses))
		for i, c := range nv.Clauses {
			pats := make([]Pattern, len(c.Patterns))
			for j, p := range c.Patterns {
				pt, err := readBackValuePattern(p)
				if err != nil {
					return nil, err
				}
				pats[j] = pt
			}
			bodyTerm, err := ReadBack(c.Body, env)
			if err != nil {
				return nil, err
			}
			clauses[i] = Clause{Patterns: pats, Body: bodyTerm}
		}
		return MatchTerm{Scrutinees: scruts, Clauses: clauses}, nil
	default:
		return nil, newErr(ErrInternal, nil, "readBack: unhandled neutral %T", n)
	}
}

func readBackValuePattern(p ValuePattern) (Pattern, error) {
	switch vp := p.(type) {
	case VPatternBind:
		return PatternBind{Ident: vp.Ident}, nil
	case VPatternPrimitive:
		return PatternPrimitive{Lit: vp.Lit}, nil
	case VPatternCons:
		subs := make([]Pattern, len(vp.Subs))
		for i, s := range vp.Subs {
			sp, err := readBackValuePattern(s)
			if err != nil {
				return nil, err
			}
			subs[i] = sp
		}
		return PatternCons{Cons: vp.Cons, Subs: subs}, nil
	case VPatternRecord:
		fields := make([]PatternField, len(vp.Fields))
		for i, f := range vp.Fields {
			sp, err := readBackValuePattern(f.Sub)
			if err != nil {
				return nil, err
			}
			fields[i] = PatternField{Name: f.Name, Sub: sp}
		}
		return PatternRecord{Fields: fields}, nil
	default:
		return nil, newErr(ErrInternal, nil, "readBack: unhandled value pattern %T", p)
	}
}
