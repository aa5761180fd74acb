package lepton

// scrutinee pairs a match scrutinee's value with its inferred type —
// the type is needed wherever pattern matching must itself recurse
// into Infer/Eval (dependent constructor-argument typing, record field
// typing) rather than just inspect the value's shape.
type scrutinee struct {
	Value Value
	Type  Value
}

// matchResult is matchOne's three-way verdict: a pattern against a
// value it's given may conclusively match, conclusively fail, or be
// undecidable because the value is not yet final (spec.md §4.1
// "Match", §4.8).
type matchResult int

const (
	matchOK matchResult = iota
	matchFail
	matchStuck
)

// matchOne tries pat against sc, extending env with any bindings the
// pattern introduces on a conclusive match.
func matchOne(pat Pattern, sc scrutinee, env *Env) (matchResult, *Env, error) {
	switch p := pat.(type) {
	case PatternBind:
		return matchOK, env.WithLocal(p.Ident, Typed{Value: sc.Value, Type: sc.Type}), nil
	case PatternPrimitive:
		switch v := sc.Value.(type) {
		case VPrimitive:
			if v.Lit.Equal(p.Lit) {
				return matchOK, env, nil
			}
			return matchFail, env, nil
		case VNeutral:
			return matchStuck, env, nil
		default:
			return matchFail, env, nil
		}
	case PatternCons:
		switch v := sc.Value.(type) {
		case VInductiveVariant:
			if !v.Cons.Equal(p.Cons) {
				return matchFail, env, nil
			}
			cons, _, err := lookupConsAndInductive(p.Cons, env)
			if err != nil {
				return 0, nil, err
			}
			if len(p.Subs) != len(cons.Params) || len(p.Subs) != len(v.Args) {
				return matchFail, env, nil
			}
			e := env
			teleEnv := env.Base()
			stuck := false
			for i, sub := range p.Subs {
				subTy, err := Eval(cons.Params[i].Type, teleEnv)
				if err != nil {
					return 0, nil, err
				}
				res, nextEnv, err := matchOne(sub, scrutinee{Value: v.Args[i], Type: subTy}, e)
				if err != nil {
					return 0, nil, err
				}
				if res == matchFail {
					return matchFail, env, nil
				}
				if res == matchStuck {
					stuck = true
				} else {
					e = nextEnv
				}
				teleEnv = teleEnv.WithLocal(cons.Params[i].Ident, Typed{Value: v.Args[i], Type: subTy})
			}
			if stuck {
				return matchStuck, env, nil
			}
			return matchOK, e, nil
		case VNeutral:
			return matchStuck, env, nil
		default:
			return matchFail, env, nil
		}
	case PatternRecord:
		switch v := sc.Value.(type) {
		case VRecord:
			e := env
			stuck := false
			for _, f := range p.Fields {
				val, ok := lookupVField(v.Fields, f.Name)
				if !ok {
					return matchFail, env, nil
				}
				fieldTy, ok := lookupFieldType(sc.Type, f.Name)
				if !ok {
					return 0, nil, newErr(ErrMissingField, nil, "record type has no field %q", f.Name)
				}
				res, nextEnv, err := matchOne(f.Sub, scrutinee{Value: val, Type: fieldTy}, e)
				if err != nil {
					return 0, nil, err
				}
				if res == matchFail {
					return matchFail, env, nil
				}
				if res == matchStuck {
					stuck = true
				} else {
					e = nextEnv
				}
			}
			if stuck {
				return matchStuck, env, nil
			}
			return matchOK, e, nil
		case VNeutral:
			return matchStuck, env, nil
		default:
			return matchFail, env, nil
		}
	default:
		return 0, nil, newErr(ErrInternal, nil, "matchOne: unhandled pattern %T", pat)
	}
}

func lookupVField(fs []VField, name string) (Value, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Val, true
		}
	}
	return nil, false
}

func lookupFieldType(ty Value, name string) (Value, bool) {
	rt, ok := ty.(VRecordType)
	if !ok {
		return nil, false
	}
	return lookupVField(rt.Fields, name)
}

// evalMatch implements spec.md §4.1's Match case: clauses are tried in
// order, a clause is skipped as soon as one of its patterns
// conclusively fails, and the first clause whose verdict cannot yet be
// decided (because some relevant scrutinee piece is not final) forces
// the whole match to residualize rather than risk picking the wrong
// clause.
func evalMatch(n MatchTerm, env *Env) (Value, error) {
	scruts := make([]scrutinee, len(n.Scrutinees))
	for i, st := range n.Scrutinees {
		ty, err := Infer(st, env)
		if err != nil {
			return nil, err
		}
		v, err := Eval(st, env)
		if err != nil {
			return nil, err
		}
		scruts[i] = scrutinee{Value: v, Type: ty}
	}

clauseLoop:
	for _, cl := range n.Clauses {
		if len(cl.Patterns) != len(scruts) {
			return nil, newErr(ErrClauseTypeMismatch, nil, "clause arity does not match scrutinee count")
		}
		bodyEnv := env
		stuck := false
		for j, pat := range cl.Patterns {
			res, nextEnv, err := matchOne(pat, scruts[j], bodyEnv)
			if err != nil {
				return nil, err
			}
			switch res {
			case matchFail:
				continue clauseLoop
			case matchStuck:
				stuck = true
			case matchOK:
				bodyEnv = nextEnv
			}
		}
		if stuck {
			return residualizeMatch(n, scruts, env)
		}
		return Eval(cl.Body, bodyEnv)
	}
	return nil, newErr(ErrNonExhaustiveMatch, nil, "no match clause applies")
}

// residualizeMatch freezes n into a neutral NMatch: every clause's
// patterns are residualized against the scrutinees' types (not their
// possibly-stuck values) and its body evaluated under the resulting
// bindings, so the frozen match can still be applied/projected/matched
// on further once its scrutinees eventually become final.
func residualizeMatch(n MatchTerm, scruts []scrutinee, env *Env) (Value, error) {
	scrutVals := make([]Value, len(scruts))
	for i, s := range scruts {
		scrutVals[i] = s.Value
	}
	clauses := make([]ValueClause, len(n.Clauses))
	for i, cl := range n.Clauses {
		bodyEnv := env
		pats := make([]ValuePattern, len(cl.Patterns))
		for j, pat := range cl.Patterns {
			vp, nextEnv, err := residualizePattern(pat, scruts[j].Type, bodyEnv)
			if err != nil {
				return nil, err
			}
			pats[j] = vp
			bodyEnv = nextEnv
		}
		bodyV, err := Eval(cl.Body, bodyEnv)
		if err != nil {
			return nil, err
		}
		clauses[i] = ValueClause{Patterns: pats, Body: bodyV}
	}
	return VNeutral{Neutral: NMatch{Scrutinees: scrutVals, Clauses: clauses}}, nil
}

// residualizePattern turns a surface Pattern into a ValuePattern typed
// against ty, binding every PatternBind (direct or nested inside a
// PatternCons/PatternRecord) to a fresh neutral variable of its
// position's type — shared by inferMatch (typing every clause without
// running any of them) and residualizeMatch (freezing a stuck match).
// Constructor sub-patterns are typed against the constructor's own
// declared telescope, evaluated under previously-typed sub-patterns
// reconstructed back into values via valuePatternToValue.
func residualizePattern(pat Pattern, ty Value, env *Env) (ValuePattern, *Env, error) {
	switch p := pat.(type) {
	case PatternBind:
		fresh := env.FreshIdent(p.Ident.Name)
		nextEnv := env.WithLocal(p.Ident, Typed{Value: VNeutral{Neutral: NVariable{Ident: fresh}}, Type: ty})
		return VPatternBind{Ident: fresh, Type: ty}, nextEnv, nil
	case PatternPrimitive:
		return VPatternPrimitive{Lit: p.Lit}, env, nil
	case PatternCons:
		cons, _, err := lookupConsAndInductive(p.Cons, env)
		if err != nil {
			return nil, nil, err
		}
		if len(p.Subs) != len(cons.Params) {
			return nil, nil, newErr(ErrClauseTypeMismatch, nil, "constructor pattern %s has wrong arity", p.Cons.Name)
		}
		e := env
		teleEnv := env.Base()
		subs := make([]ValuePattern, len(p.Subs))
		for i, sub := range p.Subs {
			subTy, err := Eval(cons.Params[i].Type, teleEnv)
			if err != nil {
				return nil, nil, err
			}
			vp, nextEnv, err := residualizePattern(sub, subTy, e)
			if err != nil {
				return nil, nil, err
			}
			subs[i] = vp
			e = nextEnv
			teleEnv = teleEnv.WithLocal(cons.Params[i].Ident, Typed{Value: valuePatternToValue(vp), Type: subTy})
		}
		return VPatternCons{Cons: p.Cons, Subs: subs}, e, nil
	case PatternRecord:
		rt, ok := ty.(VRecordType)
		if !ok {
			return nil, nil, newErr(ErrNotARecord, nil, "record pattern against a non-record type")
		}
		e := env
		fields := make([]VPatternField, len(p.Fields))
		for i, f := range p.Fields {
			fieldTy, ok := lookupVField(rt.Fields, f.Name)
			if !ok {
				return nil, nil, newErr(ErrMissingField, nil, "record type has no field %q", f.Name)
			}
			vp, nextEnv, err := residualizePattern(f.Sub, fieldTy, e)
			if err != nil {
				return nil, nil, err
			}
			fields[i] = VPatternField{Name: f.Name, Sub: vp}
			e = nextEnv
		}
		return VPatternRecord{Fields: fields}, e, nil
	default:
		return nil, nil, newErr(ErrInternal, nil, "residualizePattern: unhandled pattern %T", pat)
	}
}
