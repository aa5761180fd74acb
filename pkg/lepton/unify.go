package lepton

// Unify implements spec.md §4.4: structural equality of values up to
// eta for functions, recursing through every binder by applying both
// sides to one shared fresh neutral rather than comparing syntax.
// Subtype is defined to be exactly Unify — spec.md leaves the relation
// between the two an Open Question when no subtyping beyond equality
// is otherwise specified, and equality trivially satisfies every
// property (reflexive, transitive, antisymmetric) a subtype relation
// must have.
func Unify(a, b Value) (bool, error) {
	switch av := a.(type) {
	case VUniverse:
		_, ok := b.(VUniverse)
		return ok, nil
	case VPrimitive:
		bv, ok := b.(VPrimitive)
		return ok && av.Lit.Equal(bv.Lit), nil
	case VPrimitiveType:
		bv, ok := b.(VPrimitiveType)
		return ok && av.Kind == bv.Kind, nil
	case VPi:
		if bv, ok := b.(VPi); ok {
			return unifyBinder(av.ParamType, av.Codomain, bv.ParamType, bv.Codomain)
		}
		return false, nil
	case VSigma:
		if bv, ok := b.(VSigma); ok {
			return unifyBinder(av.ParamType, av.Codomain, bv.ParamType, bv.Codomain)
		}
		return false, nil
	case VLambda:
		switch bv := b.(type) {
		case VLambda:
			return unifyLambda(av, bv)
		case VNeutral:
			return unifyLambdaNeutral(av, bv)
		default:
			return false, nil
		}
	case VOverloadedPi:
		if bv, ok := b.(VOverloadedPi); ok {
			return unifyOverloadMaps(av.States, bv.States)
		}
		return false, nil
	case VOverloadedLambda:
		if bv, ok := b.(VOverloadedLambda); ok {
			return unifyOverloadMaps(av.States, bv.States)
		}
		return false, nil
	case VRecord:
		if bv, ok := b.(VRecord); ok {
			return unifyFields(av.Fields, bv.Fields)
		}
		return false, nil
	case VRecordType:
		if bv, ok := b.(VRecordType); ok {
			return unifyFields(av.Fields, bv.Fields)
		}
		return false, nil
	case VInductiveType:
		bv, ok := b.(VInductiveType)
		if !ok || !av.Ind.Equal(bv.Ind) {
			return false, nil
		}
		return unifyValueSlices(av.Args, bv.Args)
	case VInductiveVariant:
		bv, ok := b.(VInductiveVariant)
		if !ok || !av.Cons.Equal(bv.Cons) {
			return false, nil
		}
		return unifyValueSlices(av.Args, bv.Args)
	case VNeutral:
		switch bv := b.(type) {
		case VNeutral:
			return unifyNeutralHeads(av.Neutral, bv.Neutral)
		case VLambda:
			return unifyLambdaNeutral(bv, av)
		default:
			return false, nil
		}
	default:
		return false, newErr(ErrInternal, nil, "unify: unhandled value %T", a)
	}
}

// Subtype implements spec.md §4.4's subtype check; see Unify's doc
// comment for why it is exactly Unify today.
func Subtype(a, b Value) (bool, error) {
	return Unify(a, b)
}

// applyValueUnchecked runs f applied to arg without re-inferring or
// checking arg's type against f's declared parameter type. Nothing in
// this package calls it: Unify and ReadBack apply closures at their
// probe arguments through Closure.Apply directly.
func applyValueUnchecked(f, arg Value) (Value, error) {
	switch fv := f.(type) {
	case VLambda:
		return fv.Body.Apply(arg)
	case VOverloadedLambda:
		entries := fv.States.All()
		if len(entries) == 0 {
			return nil, newErr(ErrOverloadNoMatch, nil, "empty overload map")
		}
		result, err := entries[0].closure.Apply(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries[1:] {
			r, err := e.closure.Apply(arg)
			if err != nil {
				return nil, err
			}
			result, err = mergeOverloadableValues(result, r)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	case VNeutral:
		return VNeutral{Neutral: NApply{Head: fv.Neutral, Arg: arg}}, nil
	default:
		return nil, newErr(ErrNotAFunction, nil, "cannot apply a non-function value")
	}
}

func unifyBinder(pt1 Value, c1 *Closure, pt2 Value, c2 *Closure) (bool, error) {
	ok, err := Unify(pt1, pt2)
	if err != nil || !ok {
		return false, err
	}
	probe := VNeutral{Neutral: NVariable{Ident: NewIdent("u")}}
	v1, err := c1.Apply(probe)
	if err != nil {
		return false, err
	}
	v2, err := c2.Apply(probe)
	if err != nil {
		return false, err
	}
	return Unify(v1, v2)
}

func unifyLambda(a, b VLambda) (bool, error) {
	ok, err := Unify(a.ParamType, b.ParamType)
	if err != nil || !ok {
		return false, err
	}
	probe := VNeutral{Neutral: NVariable{Ident: NewIdent("u")}}
	v1, err := a.Body.Apply(probe)
	if err != nil {
		return false, err
	}
	v2, err := b.Body.Apply(probe)
	if err != nil {
		return false, err
	}
	return Unify(v1, v2)
}

// unifyLambdaNeutral implements eta for functions (spec.md §4.4, "unify
// up to eta"): a lambda unifies with a neutral whenever the lambda's
// body, at a fresh probe argument, unifies with the neutral applied to
// that same probe.
func unifyLambdaNeutral(lam VLambda, n VNeutral) (bool, error) {
	probe := VNeutral{Neutral: NVariable{Ident: NewIdent("u")}}
	lamBody, err := lam.Body.Apply(probe)
	if err != nil {
		return false, err
	}
	etaBody := VNeutral{Neutral: NApply{Head: n.Neutral, Arg: probe}}
	return Unify(lamBody, etaBody)
}

func unifyNeutralHeads(a, b Neutral) (bool, error) {
	switch av := a.(type) {
	case NVariable:
		bv, ok := b.(NVariable)
		return ok && av.Ident.Equal(bv.Ident), nil
	case NApply:
		bv, ok := b.(NApply)
		if !ok {
			return false, nil
		}
		ok, err := unifyNeutralHeads(av.Head, bv.Head)
		if err != nil || !ok {
			return false, err
		}
		return Unify(av.Arg, bv.Arg)
	case NProjection:
		bv, ok := b.(NProjection)
		if !ok || av.Field != bv.Field {
			return false, nil
		}
		return unifyNeutralHeads(av.Head, bv.Head)
	case NFunctionInvoke:
		bv, ok := b.(NFunctionInvoke)
		if !ok || !av.Fn.Equal(bv.Fn) {
			return false, nil
		}
		return unifyValueSlices(av.Args, bv.Args)
	case NMatch:
		bv, ok := b.(NMatch)
		if !ok || len(av.Clauses) != len(bv.Clauses) {
			return false, nil
		}
		ok, err := unifyValueSlices(av.Scrutinees, bv.Scrutinees)
		if err != nil || !ok {
			return false, err
		}
		for i := range av.Clauses {
			ca, cb := av.Clauses[i], bv.Clauses[i]
			if len(ca.Patterns) != len(cb.Patterns) {
				return false, nil
			}
			for j := range ca.Patterns {
				if !samePatternShape(ca.Patterns[j], cb.Patterns[j]) {
					return false, nil
				}
			}
			ok, err := Unify(ca.Body, cb.Body)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	default:
		return false, newErr(ErrInternal, nil, "unify: unhandled neutral %T", a)
	}
}

func unifyFields(a, b []VField) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	byName := make(map[string]Value, len(b))
	for _, f := range b {
		byName[f.Name] = f.Val
	}
	for _, f := range a {
		other, ok := byName[f.Name]
		if !ok {
			return false, nil
		}
		ok, err := Unify(f.Val, other)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func unifyValueSlices(a, b []Value) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		ok, err := Unify(a[i], b[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// unifyOverloadMaps implements spec.md §4.4's extension of unify to
// superpositions: the same number of states, each state of a matched
// against exactly one unifying state of b by parameter type, with
// their closures unified at a shared probe argument of that type.
func unifyOverloadMaps(a, b *OverloadMap) (bool, error) {
	ae, be := a.All(), b.All()
	if len(ae) != len(be) {
		return false, nil
	}
	used := make([]bool, len(be))
	for _, ea := range ae {
		matched := false
		for j, eb := range be {
			if used[j] {
				continue
			}
			ok, err := Unify(ea.paramType, eb.paramType)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			probe := VNeutral{Neutral: NVariable{Ident: NewIdent("u")}}
			va, err := ea.closure.Apply(probe)
			if err != nil {
				return false, err
			}
			vb, err := eb.closure.Apply(probe)
			if err != nil {
				return false, err
			}
			same, err := Unify(va, vb)
			if err != nil {
				return false, err
			}
			if same {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// samePatternShape compares two residualized patterns' shapes ignoring
// the concrete idents a bind position introduces — used only to decide
// whether two frozen matches' clause lists line up positionally during
// unification (spec.md §4.4).
func samePatternShape(a, b ValuePattern) bool {
	switch av := a.(type) {
	case VPatternBind:
		_, ok := b.(VPatternBind)
		return ok
	case VPatternPrimitive:
		bv, ok := b.(VPatternPrimitive)
		return ok && av.Lit.Equal(bv.Lit)
	case VPatternCons:
		bv, ok := b.(VPatternCons)
		if !ok || !av.Cons.Equal(bv.Cons) || len(av.Subs) != len(bv.Subs) {
			return false
		}
		for i := range av.Subs {
			if !samePatternShape(av.Subs[i], bv.Subs[i]) {
				return false
			}
		}
		return true
	case VPatternRecord:
		bv, ok := b.(VPatternRecord)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		byName := make(map[string]ValuePattern, len(bv.Fields))
		for _, f := range bv.Fields {
			byName[f.Name] = f.Sub
		}
		for _, f := range av.Fields {
			other, ok := byName[f.Name]
			if !ok || !samePatternShape(f.Sub, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
