package interp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mvs-lang/benchgen/internal/gen"
	"github.com/mvs-lang/benchgen/internal/ir"
	"github.com/stretchr/testify/require"
)

// varChain builds f0(v0: Float) with n chained var copies and a return of
// the last one, for n+1 executed instructions.
func varChain(n int) *ir.Program {
	names := make([]ir.Name, n+1)
	insts := make([]ir.Inst, 0, n+1)
	names[0] = ir.Name{Str: "v0", Ty: ir.Scalar}
	for i := 0; i < n; i++ {
		names[i+1] = ir.Name{Str: fmt.Sprintf("v%d", i+1), Ty: ir.Scalar}
		insts = append(insts, &ir.VarInst{Dst: ir.NameID(i + 1), Src: ir.NameID(i)})
	}
	insts = append(insts, &ir.ReturnInst{Src: ir.NameID(n)})

	f0 := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names:     names,
		Insts:     insts,
	}
	return &ir.Program{Funcs: []*ir.Func{f0}}
}

func TestValidateCountsEveryInstruction(t *testing.T) {
	narrowed, err := Validate(varChain(10), 5000, 10)
	require.NoError(t, err)
	require.Equal(t, 11, narrowed.Meta.TotalCount)
	require.Equal(t, map[string]int{"VarInst": 10, "ReturnInst": 1}, narrowed.Meta.OpCount)
}

func TestValidateTrivialityBoundary(t *testing.T) {
	// 11 executed instructions pass a min of 10 but not a min of 11.
	_, err := Validate(varChain(10), 5000, 11)
	require.True(t, errors.Is(err, ErrTooTrivial))

	_, err = Validate(varChain(10), 5000, 10)
	require.NoError(t, err)
}

func TestValidateBudgetBoundary(t *testing.T) {
	// The budget is exceeded on the instruction after the limit, not on the
	// one that reaches it.
	_, err := Validate(varChain(10), 10, 5)
	require.True(t, errors.Is(err, ErrBudgetExceeded))

	_, err = Validate(varChain(10), 11, 5)
	require.NoError(t, err)
}

func TestValidateRejectsDivisionByZero(t *testing.T) {
	// v0 starts at 0.0, so v0 / v0 divides by zero.
	f0 := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.BinaryInst{Dst: 1, Left: 0, Op: ir.OpDiv, Right: 0},
			&ir.ReturnInst{Src: 1},
		},
	}
	prog := &ir.Program{Funcs: []*ir.Func{f0}}

	_, err := Validate(prog, 5000, 10)
	require.True(t, errors.Is(err, ErrDivideByZero))
}

func TestValidateNarrowsToReachable(t *testing.T) {
	s0 := &ir.StructType{Name: "s0", Properties: []ir.Type{ir.Scalar}}
	s1 := &ir.StructType{Name: "s1", Properties: []ir.Type{ir.Scalar}}

	// f1 builds an s0 and reads it back; f2 is never called.
	f1 := &ir.Func{
		Ordinal:   1,
		Name:      ir.Name{Str: "f1", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: s0},
			{Str: "v2", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.NewStructInst{Dst: 1, Vals: []ir.NameID{0}},
			&ir.StructGetInst{Dst: 2, Obj: 1, Index: 0},
			&ir.ReturnInst{Src: 2},
		},
	}
	f2 := &ir.Func{
		Ordinal:   2,
		Name:      ir.Name{Str: "f2", Ty: ir.Scalar},
		NumParams: 1,
		Names:     []ir.Name{{Str: "v0", Ty: ir.Scalar}},
		Insts:     []ir.Inst{&ir.ReturnInst{Src: 0}},
	}
	f0 := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: ir.Scalar},
			{Str: "v2", Ty: ir.Scalar},
			{Str: "v3", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.CallInst{Dst: 1, Callee: 1, Args: []ir.NameID{0}},
			&ir.CallInst{Dst: 2, Callee: 1, Args: []ir.NameID{1}},
			&ir.CallInst{Dst: 3, Callee: 1, Args: []ir.NameID{2}},
			&ir.ReturnInst{Src: 3},
		},
	}
	prog := &ir.Program{Structs: []*ir.StructType{s0, s1}, Funcs: []*ir.Func{f0, f1, f2}}

	narrowed, err := Validate(prog, 5000, 10)
	require.NoError(t, err)

	require.Len(t, narrowed.Funcs, 2)
	require.Equal(t, "f0", narrowed.Funcs[0].Name.Str)
	require.Equal(t, "f1", narrowed.Funcs[1].Name.Str)
	require.Equal(t, []*ir.StructType{s0}, narrowed.Structs)

	require.Equal(t, 13, narrowed.Meta.TotalCount)
	require.Equal(t, map[string]int{
		"CallInst":      3,
		"NewStructInst": 3,
		"StructGetInst": 3,
		"ReturnInst":    4,
	}, narrowed.Meta.OpCount)
}

func TestValidateKeepsStructsFromEntryArguments(t *testing.T) {
	s0 := &ir.StructType{Name: "s0", Properties: []ir.Type{ir.Scalar, ir.Scalar}}

	names := []ir.Name{{Str: "v0", Ty: s0}}
	insts := make([]ir.Inst, 0, 12)
	for i := 0; i < 11; i++ {
		names = append(names, ir.Name{Str: fmt.Sprintf("v%d", i+1), Ty: ir.Scalar})
		insts = append(insts, &ir.StructGetInst{Dst: ir.NameID(i + 1), Obj: 0, Index: 0})
	}
	insts = append(insts, &ir.ReturnInst{Src: 11})
	f0 := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names:     names,
		Insts:     insts,
	}
	prog := &ir.Program{Structs: []*ir.StructType{s0}, Funcs: []*ir.Func{f0}}

	narrowed, err := Validate(prog, 5000, 10)
	require.NoError(t, err)

	// s0 is never constructed inside the program, but the entry argument is
	// an s0 value, so the declaration must survive narrowing.
	require.Equal(t, []*ir.StructType{s0}, narrowed.Structs)
}

func TestArrayCopiesDoNotAlias(t *testing.T) {
	// v0 = 0.0 and v1 = 1.0 on entry.
	//
	//   v2 = [v0]     array holding 0.0
	//   var v3 = v2   an independent copy
	//   v3[0] = v1    must not write through to v2
	//   v4 = v2[0]    still 0.0 if copies are real
	//   v5 = v1 / v4  division by zero proves the copy
	arr := ir.ArrayType{Element: ir.Scalar, Length: 1}
	f0 := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 2,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: ir.Scalar},
			{Str: "v2", Ty: arr},
			{Str: "v3", Ty: arr},
			{Str: "v4", Ty: ir.Scalar},
			{Str: "v5", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.NewArrayInst{Dst: 2, Elems: []ir.NameID{0}},
			&ir.VarInst{Dst: 3, Src: 2},
			&ir.ArraySetInst{Target: 3, Index: 0, Src: 1},
			&ir.ArrayGetInst{Dst: 4, Arr: 2, Index: 0},
			&ir.BinaryInst{Dst: 5, Left: 1, Op: ir.OpDiv, Right: 4},
			&ir.ReturnInst{Src: 5},
		},
	}
	prog := &ir.Program{Funcs: []*ir.Func{f0}}

	_, err := Validate(prog, 5000, 0)
	require.True(t, errors.Is(err, ErrDivideByZero), "expected the untouched copy to keep its zero")
}

func TestValidateAcceptsGeneratedPrograms(t *testing.T) {
	accepted := 0
	for seed := int64(1); seed <= 200 && accepted < 3; seed++ {
		prog := gen.New(seed, gen.Default()).Program()
		narrowed, err := Validate(prog, 5000, 10)
		if err != nil {
			require.True(t,
				errors.Is(err, ErrDivideByZero) ||
					errors.Is(err, ErrBudgetExceeded) ||
					errors.Is(err, ErrTooTrivial),
				"unexpected screening failure: %v", err)
			continue
		}
		accepted++

		require.Empty(t, ir.Validate(narrowed), "narrowed program must stay well-formed")
		require.Greater(t, narrowed.Meta.TotalCount, 10)
		require.LessOrEqual(t, narrowed.Meta.TotalCount, 5000)
		require.Equal(t, 0, narrowed.Funcs[0].Ordinal, "entry survives narrowing")
	}
	require.GreaterOrEqual(t, accepted, 3, "expected some seeds in 1..200 to validate")
}
