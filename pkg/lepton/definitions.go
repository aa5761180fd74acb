package lepton

// Definition is a global, read-only for the lifetime of evaluation
// (spec.md §5, "Definitions (globals) are read-only during evaluation;
// they are populated by the elaborator before the core runs").
type Definition interface {
	defName() string
	isDefinition()
}

// NativeFunc backs a FunctionDef whose body is implemented in Go
// rather than as a core Term — the built-in arithmetic and comparison
// primitives a real program needs before any user code runs.
type NativeFunc func(args []Value) (Value, error)

// FunctionDef is a (possibly recursive, possibly native) function.
// Exactly one of Body or Native is set.
type FunctionDef struct {
	Name       string
	Params     []Param
	ResultType Term
	Body       Term
	Recursive  bool
	Native     NativeFunc
}

func (f *FunctionDef) defName() string { return f.Name }
func (f *FunctionDef) isDefinition()   {}

// OverloadedDef groups the candidates of an ad-hoc-polymorphic
// definition (spec.md §4.7, "Overload resolution").
type OverloadedDef struct {
	Name       string
	Candidates []*FunctionDef
}

func (o *OverloadedDef) defName() string { return o.Name }
func (o *OverloadedDef) isDefinition()   {}

// ConstructorDef is one constructor of an InductiveDef.
type ConstructorDef struct {
	Name      string
	Inductive string
	Params    []Param
}

func (c *ConstructorDef) defName() string { return c.Name }
func (c *ConstructorDef) isDefinition()   {}

// InductiveDef is a (possibly indexed) inductive type family.
type InductiveDef struct {
	Name         string
	Params       []Param
	ResultType   Term
	Constructors []*ConstructorDef
}

func (i *InductiveDef) defName() string { return i.Name }
func (i *InductiveDef) isDefinition()   {}

// Registry is the flat, read-only-during-evaluation global namespace
// (spec.md §5, "Definitions") shared by every Env cloned from a given
// root: one name -> Definition map, since the core has no visibility
// rules or namespacing of its own.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

func (r *Registry) Register(def Definition) {
	r.defs[def.defName()] = def
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

func lookupFunctionDef(ref GlobalRef, env *Env) (*FunctionDef, error) {
	def, ok := env.Registry().Lookup(ref.Name)
	if !ok {
		return nil, newErr(ErrUnboundVariable, nil, "unbound function: %s", ref.Name)
	}
	fn, ok := def.(*FunctionDef)
	if !ok {
		return nil, newErr(ErrNotAFunction, nil, "%s is not a function", ref.Name)
	}
	return fn, nil
}

func lookupOverloadedDef(ref GlobalRef, env *Env) (*OverloadedDef, error) {
	def, ok := env.Registry().Lookup(ref.Name)
	if !ok {
		return nil, newErr(ErrUnboundVariable, nil, "unbound overloaded function: %s", ref.Name)
	}
	od, ok := def.(*OverloadedDef)
	if !ok {
		return nil, newErr(ErrNotAFunction, nil, "%s is not overloaded", ref.Name)
	}
	return od, nil
}

func lookupConsAndInductive(ref GlobalRef, env *Env) (*ConstructorDef, *InductiveDef, error) {
	def, ok := env.Registry().Lookup(ref.Name)
	if !ok {
		return nil, nil, newErr(ErrUnboundVariable, nil, "unbound constructor: %s", ref.Name)
	}
	cons, ok := def.(*ConstructorDef)
	if !ok {
		return nil, nil, newErr(ErrNotAnInductive, nil, "%s is not a constructor", ref.Name)
	}
	indDef, ok := env.Registry().Lookup(cons.Inductive)
	if !ok {
		return nil, nil, newErr(ErrUnboundVariable, nil, "unbound inductive: %s", cons.Inductive)
	}
	ind, ok := indDef.(*InductiveDef)
	if !ok {
		return nil, nil, newErr(ErrNotAnInductive, nil, "%s is not an inductive", cons.Inductive)
	}
	return cons, ind, nil
}
