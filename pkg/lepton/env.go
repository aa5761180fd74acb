package lepton

import (
	"log/slog"
	"sync/atomic"

	"github.com/iancoleman/strcase"
	lru "github.com/hashicorp/golang-lru/v2"
	digest "github.com/opencontainers/go-digest"

	"github.com/lepton-lang/lepton-dev/internal/config"
	"github.com/lepton-lang/lepton-dev/internal/corelog"
)

// Typed pairs a value with the type it was checked/inferred at — the
// payload of every local binding (spec.md §4, "environments carry
// Typed{value, type} pairs").
type Typed struct {
	Value Value
	Type  Value
}

type localNode struct {
	ident  Ident
	typed  Typed
	parent *localNode
}

// caches is the mutable state shared, by pointer, across every Env
// cloned from a common root: the normalization memo (memo.go) keyed by
// the Registry it belongs to, the overload resolution memo
// (overload.go) keyed by overloaded name and argument types, and the
// monotonic counter readback.go uses to pick fresh display names.
// Definitions themselves (env.registry) are never mutated once the
// core starts running.
type caches struct {
	norm     *lru.Cache[digest.Digest, Value]
	resolved *lru.Cache[string, *FunctionDef]
	fresh    atomic.Uint64
}

// Env is the evaluation/inference environment of spec.md §4: a
// lexically-scoped, persistent chain of local bindings (WithLocal
// never mutates a shared Env, only extends a fresh one — the stack
// discipline spec.md §5 requires), plus a shared, read-only-at-runtime
// Registry of globals.
type Env struct {
	locals   *localNode
	registry *Registry
	current  *GlobalRef
	depth    *atomic.Int32
	maxDepth int32
	cache    *caches
	logger   *slog.Logger
}

// NewEnvWithConfig builds a root Env over registry (a fresh one if nil), using
// cfg for the recursion guard and cache sizes.
func NewEnvWithConfig(registry *Registry, cfg config.Config) *Env {
	if registry == nil {
		registry = NewRegistry()
	}
	normCache, _ := lru.New[digest.Digest, Value](max(1, cfg.NormalizeCacheSize))
	resolvedCache, _ := lru.New[string, *FunctionDef](max(1, cfg.OverloadCacheSize))
	return &Env{
		registry: registry,
		depth:    new(atomic.Int32),
		maxDepth: int32(max(1, cfg.MaxEvalDepth)),
		cache:    &caches{norm: normCache, resolved: resolvedCache},
		logger:   corelog.Default(),
	}
}

// NewEnv builds a root Env with the default configuration.
func NewEnv(registry *Registry) *Env {
	return NewEnvWithConfig(registry, config.Default())
}

// WithLocal extends env with ident bound to typed, without mutating
// env. The returned Env shares env's registry, caches and depth
// counter.
func (e *Env) WithLocal(ident Ident, typed Typed) *Env {
	cp := *e
	cp.locals = &localNode{ident: ident, typed: typed, parent: e.locals}
	return &cp
}

// Lookup finds the nearest local binding of ident, innermost first.
func (e *Env) Lookup(ident Ident) (Typed, bool) {
	for n := e.locals; n != nil; n = n.parent {
		if n.ident.Equal(ident) {
			return n.typed, true
		}
	}
	return Typed{}, false
}

// Base returns env with its local chain cleared but its registry,
// caches, depth counter and logger preserved. Global function/inductive
// bodies are not lexical closures over their call site (spec.md §4,
// §5): they only ever see their own declared parameters, never the
// caller's locals.
func (e *Env) Base() *Env {
	cp := *e
	cp.locals = nil
	cp.current = nil
	return &cp
}

// WithCurrentDefinition marks ref as the definition currently being
// evaluated, used by the recursive-call freeze check (spec.md §4.1,
// §4.8).
func (e *Env) WithCurrentDefinition(ref GlobalRef) *Env {
	cp := *e
	cp.current = &ref
	return &cp
}

func (e *Env) CurrentDefinition() *GlobalRef { return e.current }

func (e *Env) Registry() *Registry { return e.registry }

func (e *Env) Logger() *slog.Logger {
	if e.logger == nil {
		return corelog.Default()
	}
	return e.logger
}

func (e *Env) WithLogger(l *slog.Logger) *Env {
	cp := *e
	cp.logger = l
	return &cp
}

// FreshIdent allocates a display name derived from base (lower-camel
// cased, per SPEC_FULL.md §2) suffixed with a counter shared by every
// Env cloned from the same root, so read-back never repeats a display
// name within one normalization (spec.md §4.6, §9 "Fresh names"; tests
// must not depend on the exact suffix).
func (e *Env) FreshIdent(base string) Ident {
	canon := strcase.ToLowerCamel(base)
	if canon == "" {
		canon = "x"
	}
	n := e.cache.fresh.Add(1)
	id := NewIdent(canon)
	id.Name = canon + "$" + itoa(n)
	return id
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// enterDepth/exitDepth implement the explicit recursion guard
// SPEC_FULL.md §1 adds around spec.md §5's host-stack-bounded
// recursion: a CoreError instead of a stack overflow on adversarial
// input.
func (e *Env) enterDepth() error {
	if e.depth.Add(1) > e.maxDepth {
		e.depth.Add(-1)
		return newErr(ErrRecursionLimit, nil, "exceeded max evaluation depth (%d)", e.maxDepth)
	}
	return nil
}

func (e *Env) exitDepth() {
	e.depth.Add(-1)
}
