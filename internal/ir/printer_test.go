package ir

import "testing"

func TestFormatProgram(t *testing.T) {
	prog := propertyReadProgram()
	prog.Meta = &Meta{
		OpCount:    map[string]int{"StructGetInst": 11, "ReturnInst": 1},
		TotalCount: 12,
	}

	want := `struct s0 { p0: Float, p1: Float }
func f0(v0: s0) -> Float {
  v1 = v0.p0
  return v1
}
meta: total=12 ReturnInst=1 StructGetInst=11
`
	if got := Format(prog); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatInstForms(t *testing.T) {
	fn := callChainProgram().Funcs[0]

	for i, want := range []string{
		"var v1: Float = v0",
		"v2 = f1(v1)",
		"v1 = v2",
		"return v1",
	} {
		if got := FormatInst(fn, fn.Insts[i]); got != want {
			t.Errorf("inst %d: got %q, want %q", i, got, want)
		}
	}
}

func TestFormatCompositeInsts(t *testing.T) {
	arr := ArrayType{Element: Scalar, Length: 2}
	s0 := &StructType{Name: "s0", Properties: []Type{Scalar}}
	fn := &Func{
		Ordinal:   0,
		Name:      Name{Str: "f0", Ty: Scalar},
		NumParams: 2,
		Names: []Name{
			{Str: "v0", Ty: Scalar},
			{Str: "v1", Ty: Scalar},
			{Str: "v2", Ty: arr},
			{Str: "v3", Ty: s0},
			{Str: "v4", Ty: Scalar},
		},
	}

	for _, tc := range []struct {
		inst Inst
		want string
	}{
		{&NewArrayInst{Dst: 2, Elems: []NameID{0, 1}}, "v2 = [v0, v1]"},
		{&ArrayGetInst{Dst: 4, Arr: 2, Index: 1}, "v4 = v2[1]"},
		{&ArraySetInst{Target: 2, Index: 0, Src: 1}, "v2[0] = v1"},
		{&NewStructInst{Dst: 3, Vals: []NameID{0}}, "v3 = s0(v0)"},
		{&StructGetInst{Dst: 4, Obj: 3, Index: 0}, "v4 = v3.p0"},
		{&StructSetInst{Target: 3, Index: 0, Src: 1}, "v3.p0 = v1"},
		{&BinaryInst{Dst: 4, Left: 0, Op: OpAdd, Right: 1}, "v4 = v0 + v1"},
	} {
		if got := FormatInst(fn, tc.inst); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}
