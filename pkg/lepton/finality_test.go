package lepton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFinalValue(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		want  bool
	}{
		{"primitive", VPrimitive{Lit: LitOfInt(1)}, true},
		{"bare variable", VNeutral{Neutral: NVariable{Ident: NewIdent("x")}}, true},
		{"lambda", VLambda{ParamType: VPrimitiveType{Kind: LitInt}, Body: &Closure{Native: func(v Value) (Value, error) { return v, nil }}}, true},
		{
			"frozen recursive call with neutral arg",
			VNeutral{Neutral: NFunctionInvoke{
				Fn:   GlobalRef{Name: "f", Kind: DefFunction},
				Args: []Value{VNeutral{Neutral: NVariable{Ident: NewIdent("x")}}},
			}},
			true,
		},
		{
			"application whose argument is itself stuck on a match",
			VNeutral{Neutral: NApply{
				Head: NVariable{Ident: NewIdent("f")},
				Arg: VNeutral{Neutral: NMatch{
					Scrutinees: []Value{VNeutral{Neutral: NVariable{Ident: NewIdent("y")}}},
					Clauses:    nil,
				}},
			}},
			true,
		},
		{"record with all final fields", VRecord{Fields: []VField{{Name: "a", Val: VPrimitive{Lit: LitOfInt(1)}}}}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, isFinalValue(c.value))
		})
	}
}
