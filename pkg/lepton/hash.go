package lepton

import (
	"fmt"
	"strings"
)

// canonicalString renders v's read-back form into a deterministic
// string, used as a hash/cache key by OverloadMap (overloadmap.go) and
// the overload resolution memo (overload.go). Variables render with
// their identity, and every read-back gives its binders fresh
// identities, so two renderings of a value containing a binder never
// coincide. OverloadMap only uses the string as a bucket prefilter and
// falls back to a real Unify; the resolution memo uses it as its key.
func canonicalString(v Value) (string, error) {
	env := NewEnv(nil)
	t, err := ReadBack(v, env)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeTermKey(&b, t)
	return b.String(), nil
}

// termKey renders a raw (pre-eval) Term deterministically, used by the
// normalization memo to key on syntactic identity rather than go
// through eval first.
func termKey(t Term) string {
	var b strings.Builder
	writeTermKey(&b, t)
	return b.String()
}

func writeTermKey(b *strings.Builder, t Term) {
	switch n := t.(type) {
	case UniverseTerm:
		b.WriteString("U")
	case PrimitiveTerm:
		fmt.Fprintf(b, "lit(%s:%s)", n.Lit.Kind, n.Lit)
	case PrimitiveTypeTerm:
		fmt.Fprintf(b, "litty(%s)", n.Kind)
	case VariableTerm:
		fmt.Fprintf(b, "var(%s#%s)", n.Ident.Name, n.Ident.id)
	case FunctionInvokeTerm:
		fmt.Fprintf(b, "invoke(%s", n.Fn.Name)
		writeTermList(b, n.Args)
		b.WriteByte(')')
	case OverloadInvokeTerm:
		fmt.Fprintf(b, "oinvoke(%s", n.Fn.Name)
		writeTermList(b, n.Args)
		b.WriteByte(')')
	case InductiveTypeTerm:
		fmt.Fprintf(b, "ind(%s", n.Ind.Name)
		writeTermList(b, n.Args)
		b.WriteByte(')')
	case InductiveVariantTerm:
		b.WriteString("variant(")
		writeTermKey(b, n.Inductive)
		fmt.Fprintf(b, ",%s", n.Cons.Name)
		writeTermList(b, n.Args)
		b.WriteByte(')')
	case MatchTerm:
		b.WriteString("match(")
		writeTermList(b, n.Scrutinees)
		for _, cl := range n.Clauses {
			b.WriteString(";[")
			for _, p := range cl.Patterns {
				writePatternKey(b, p)
				b.WriteByte(',')
			}
			b.WriteString("]=>")
			writeTermKey(b, cl.Body)
		}
		b.WriteByte(')')
	case PiTerm:
		b.WriteString("pi(")
		writeTermKey(b, n.Param.Type)
		b.WriteByte(',')
		writeTermKey(b, n.Codomain)
		b.WriteByte(')')
	case SigmaTerm:
		b.WriteString("sigma(")
		writeTermKey(b, n.Param.Type)
		b.WriteByte(',')
		writeTermKey(b, n.Codomain)
		b.WriteByte(')')
	case OverloadedPiTerm:
		b.WriteString("opi[")
		for _, st := range n.States {
			writeTermKey(b, st.Param.Type)
			b.WriteByte(':')
			writeTermKey(b, st.Codomain)
			b.WriteByte(';')
		}
		b.WriteByte(']')
	case OverloadedLambdaTerm:
		b.WriteString("olambda[")
		for _, st := range n.States {
			writeTermKey(b, st.Param.Type)
			b.WriteByte(':')
			writeTermKey(b, st.Body)
			b.WriteByte(';')
		}
		b.WriteByte(']')
	case LambdaTerm:
		b.WriteString("lambda(")
		writeTermKey(b, n.Param.Type)
		b.WriteByte(',')
		writeTermKey(b, n.Body)
		b.WriteByte(')')
	case ApplyTerm:
		b.WriteString("apply(")
		writeTermKey(b, n.Fn)
		b.WriteByte(',')
		writeTermKey(b, n.Arg)
		b.WriteByte(')')
	case RecordTerm:
		b.WriteString("record{")
		for _, f := range n.Fields {
			fmt.Fprintf(b, "%s=", f.Name)
			writeTermKey(b, f.Val)
			b.WriteByte(';')
		}
		b.WriteByte('}')
	case RecordTypeTerm:
		b.WriteString("recordty{")
		for _, f := range n.Fields {
			fmt.Fprintf(b, "%s=", f.Name)
			writeTermKey(b, f.Val)
			b.WriteByte(';')
		}
		b.WriteByte('}')
	case ProjectionTerm:
		b.WriteString("proj(")
		writeTermKey(b, n.Record)
		fmt.Fprintf(b, ",%s)", n.Field)
	default:
		fmt.Fprintf(b, "?%T", t)
	}
}

func writeTermList(b *strings.Builder, ts []Term) {
	for _, t := range ts {
		b.WriteByte(',')
		writeTermKey(b, t)
	}
}

func writePatternKey(b *strings.Builder, p Pattern) {
	switch pp := p.(type) {
	case PatternBind:
		b.WriteString("_")
	case PatternPrimitive:
		fmt.Fprintf(b, "lit(%s:%s)", pp.Lit.Kind, pp.Lit)
	case PatternCons:
		fmt.Fprintf(b, "cons(%s", pp.Cons.Name)
		for _, s := range pp.Subs {
			b.WriteByte(',')
			writePatternKey(b, s)
		}
		b.WriteByte(')')
	case PatternRecord:
		b.WriteString("record{")
		for _, f := range pp.Fields {
			fmt.Fprintf(b, "%s=", f.Name)
			writePatternKey(b, f.Sub)
			b.WriteByte(';')
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "?%T", p)
	}
}
