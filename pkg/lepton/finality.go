package lepton

// isFinalValue implements spec.md §4.8's finality predicate, gating
// recursive and native-function invocation: a value is final once no
// further evaluation could change its outermost shape. A Neutral is
// final only past a frozen NFunctionInvoke (that is itself what
// finality is protecting the caller from re-entering), or at a bare
// variable/projection/application/match whose own pieces are final —
// none of those can ever unstick on their own.
func isFinalValue(v Value) bool {
	switch val := v.(type) {
	case VUniverse, VPrimitive, VPrimitiveType, VPi, VSigma, VLambda,
		VOverloadedPi, VOverloadedLambda, VRecordType:
		return true
	case VRecord:
		return allFieldsFinal(val.Fields)
	case VInductiveType:
		return allValuesFinal(val.Args)
	case VInductiveVariant:
		return allValuesFinal(val.Args)
	case VNeutral:
		return isFinalNeutral(val.Neutral)
	default:
		return false
	}
}

func isFinalNeutral(n Neutral) bool {
	switch nv := n.(type) {
	case NVariable:
		return true
	case NApply:
		return isFinalNeutral(nv.Head) && isFinalValue(nv.Arg)
	case NProjection:
		return isFinalNeutral(nv.Head)
	case NFunctionInvoke:
		return allValuesFinal(nv.Args)
	case NMatch:
		return allValuesFinal(nv.Scrutinees) && allEntriesFinal(nv.Clauses)
	default:
		return false
	}
}

func allFieldsFinal(fs []VField) bool {
	for _, f := range fs {
		if !isFinalValue(f.Val) {
			return false
		}
	}
	return true
}

func allEntriesFinal(cs []ValueClause) bool {
	for _, c := range cs {
		if !isFinalValue(c.Body) {
			return false
		}
	}
	return true
}
