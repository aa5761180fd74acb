package lepton

import digest "github.com/opencontainers/go-digest"

// memoKey computes the normalization-memo cache key for t under env: a
// content digest of its canonical textual rendering (termKey, hash.go)
// combined with env's current definition marker (env.go). The marker
// has to be part of the key, not just the env.locals==nil gate that
// guards memoization in Eval (eval.go): invokeResolvedFunction's
// freeze-vs-unfold choice for a FunctionInvokeTerm depends on
// env.current, so two closed evaluations of the syntactically same
// term under different current definitions can legally produce
// different values and must never share a cache entry.
func memoKey(t Term, env *Env) digest.Digest {
	s := termKey(t)
	if cur := env.CurrentDefinition(); cur != nil {
		s += "#" + cur.Kind.String() + ":" + cur.Name
	}
	return digest.FromString(s)
}

func (e *Env) memoLookup(t Term) (Value, bool) {
	if e.cache == nil || e.cache.norm == nil {
		return nil, false
	}
	return e.cache.norm.Get(memoKey(t, e))
}

func (e *Env) memoStore(t Term, v Value) {
	if e.cache == nil || e.cache.norm == nil {
		return
	}
	e.cache.norm.Add(memoKey(t, e), v)
}

// resolveCacheLookup/resolveCacheStore back the overload resolution
// memo (overload.go), bounded by internal/config's overload_cache_size
// the same way memoLookup/memoStore are bounded by normalize_cache_size.
func (e *Env) resolveCacheLookup(key string) (*FunctionDef, bool) {
	if e.cache == nil || e.cache.resolved == nil {
		return nil, false
	}
	return e.cache.resolved.Get(key)
}

func (e *Env) resolveCacheStore(key string, fn *FunctionDef) {
	if e.cache == nil || e.cache.resolved == nil {
		return
	}
	e.cache.resolved.Add(key, fn)
}
