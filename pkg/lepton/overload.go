package lepton

import "strings"

// mergeTwoClosures produces a closure that, applied to v, runs both a
// and b at v and merges their results (spec.md §4.1, "merging two
// bodies requires both to be overloadable"). The merge itself only
// happens once the synthetic closure is actually applied — two states
// keyed by the same parameter type are not forced at construction
// time, only when something eventually calls the merged entry.
func mergeTwoClosures(a, b *Closure) *Closure {
	return &Closure{
		ParamType: a.ParamType,
		Native: func(v Value) (Value, error) {
			ra, err := a.Apply(v)
			if err != nil {
				return nil, err
			}
			rb, err := b.Apply(v)
			if err != nil {
				return nil, err
			}
			return mergeOverloadableValues(ra, rb)
		},
	}
}

// mergeOverloadableValues implements the union rule of spec.md §4.1's
// Apply-on-OverloadedLambda case (also reused for OverloadedPi, and for
// forcing a mergeTwoClosures entry): both values must be overloaded of
// the same species, or the definition is ambiguous.
func mergeOverloadableValues(a, b Value) (Value, error) {
	switch av := a.(type) {
	case VOverloadedLambda:
		bv, ok := b.(VOverloadedLambda)
		if !ok {
			return nil, errAmbiguousDefinition()
		}
		merged, err := unionOverloadMaps(av.States, bv.States)
		if err != nil {
			return nil, err
		}
		return VOverloadedLambda{States: merged}, nil
	case VOverloadedPi:
		bv, ok := b.(VOverloadedPi)
		if !ok {
			return nil, errAmbiguousDefinition()
		}
		merged, err := unionOverloadMaps(av.States, bv.States)
		if err != nil {
			return nil, err
		}
		return VOverloadedPi{States: merged}, nil
	default:
		return nil, errAmbiguousDefinition()
	}
}

func errAmbiguousDefinition() error {
	return newErr(ErrOverloadedDefinitionAmbiguous, nil,
		"ambiguous overloaded definition: merged states must both be overloaded")
}

// resolutionCacheKey renders def's name and argTypes' canonical forms
// into a cache key for the overload resolution memo. Resolution only
// depends on def.Candidates and argTypes (candidateAccepts/
// candidateParamTypeAt both evaluate under env.Base(), never the
// caller's locals), so the same key always resolves to the same
// candidate regardless of call site — safe to memoize.
func resolutionCacheKey(def *OverloadedDef, argTypes []Value) (string, bool) {
	var b strings.Builder
	b.WriteString(def.Name)
	for _, ty := range argTypes {
		s, err := canonicalString(ty)
		if err != nil {
			return "", false
		}
		b.WriteByte('|')
		b.WriteString(s)
	}
	return b.String(), true
}

// resolveOverload implements spec.md §4.7 exactly: filter candidates by
// arity and per-parameter subtyping against the inferred argument
// types, then iteratively narrow to the most specific remaining
// candidate at each parameter position. Resolutions are memoized
// (internal/config's overload_cache_size bounds the LRU, env.go) since
// the overload resolver and the dependent-result-type rules in infer.go
// can re-resolve the same call several times while typechecking a
// single expression.
func resolveOverload(def *OverloadedDef, argTerms []Term, env *Env) (*FunctionDef, error) {
	argTypes := make([]Value, len(argTerms))
	for i, a := range argTerms {
		ty, err := Infer(a, env)
		if err != nil {
			return nil, err
		}
		argTypes[i] = ty
	}

	cacheKey, cacheable := resolutionCacheKey(def, argTypes)
	if cacheable {
		if fn, ok := env.resolveCacheLookup(cacheKey); ok {
			return fn, nil
		}
	}

	var candidates []*FunctionDef
	for _, c := range def.Candidates {
		if len(c.Params) != len(argTerms) {
			continue
		}
		ok, err := candidateAccepts(c, argTypes, env)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, newErr(ErrOverloadNoMatch, nil, "no overload of %s matches the argument types", def.Name)
	}

	for i := 0; i < len(argTerms) && len(candidates) > 1; i++ {
		types := make([]Value, len(candidates))
		for ci, c := range candidates {
			t, err := candidateParamTypeAt(c, i, env)
			if err != nil {
				return nil, err
			}
			types[ci] = t
		}
		var retained []*FunctionDef
		for ci := range candidates {
			mostSpecific := true
			for cj := range candidates {
				if ci == cj {
					continue
				}
				cLEother, err := Subtype(types[ci], types[cj])
				if err != nil {
					return nil, err
				}
				otherLEc, err := Subtype(types[cj], types[ci])
				if err != nil {
					return nil, err
				}
				if !(cLEother || !otherLEc) {
					mostSpecific = false
					break
				}
			}
			if mostSpecific {
				retained = append(retained, candidates[ci])
			}
		}
		candidates = retained
	}

	if len(candidates) == 1 {
		env.Logger().Debug("overload resolved", "name", def.Name, "chosen", candidates[0].Name)
		if cacheable {
			env.resolveCacheStore(cacheKey, candidates[0])
		}
		return candidates[0], nil
	}
	return nil, newErr(ErrOverloadAmbiguous, nil, "ambiguous overload resolution for %s", def.Name)
}

// candidateAccepts checks whether every declared parameter type of c,
// evaluated under a telescope of its own preceding parameters bound to
// fresh neutrals, accepts the corresponding inferred argument type.
func candidateAccepts(c *FunctionDef, argTypes []Value, env *Env) (bool, error) {
	e := env.Base()
	for i, p := range c.Params {
		pt, err := Eval(p.Type, e)
		if err != nil {
			return false, err
		}
		ok, err := Subtype(pt, argTypes[i])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		e = e.WithLocal(p.Ident, Typed{Value: VNeutral{Neutral: NVariable{Ident: p.Ident}}, Type: pt})
	}
	return true, nil
}

// candidateParamTypeAt evaluates c.Params[i].Type under a telescope of
// c's own preceding parameters bound to fresh neutrals.
func candidateParamTypeAt(c *FunctionDef, i int, env *Env) (Value, error) {
	e := env.Base()
	for j := 0; j < i; j++ {
		pt, err := Eval(c.Params[j].Type, e)
		if err != nil {
			return nil, err
		}
		e = e.WithLocal(c.Params[j].Ident, Typed{Value: VNeutral{Neutral: NVariable{Ident: c.Params[j].Ident}}, Type: pt})
	}
	return Eval(c.Params[i].Type, e)
}
