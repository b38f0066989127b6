package gen

import (
	"testing"

	"github.com/mvs-lang/benchgen/internal/ir"
)

func TestGeneratedProgramsAreWellFormed(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		prog := New(seed, Default()).Program()
		if problems := ir.Validate(prog); len(problems) > 0 {
			t.Errorf("seed %d: expected a well-formed program, got: %v", seed, problems)
		}
	}
}

func TestGeneratorDeterminism(t *testing.T) {
	a := ir.Format(New(7, Default()).Program())
	b := ir.Format(New(7, Default()).Program())
	if a != b {
		t.Error("Expected identical programs for identical seeds")
	}
}

func TestEntrySignature(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		entry := New(seed, Default()).Program().Entry()
		if !isScalar(entry.ReturnType()) {
			t.Fatalf("seed %d: entry returns %s, want Float", seed, entry.ReturnType())
		}

		hasScalarParam := false
		for _, p := range entry.Params() {
			if isScalar(p.Ty) {
				hasScalarParam = true
				break
			}
		}
		if !hasScalarParam {
			t.Fatalf("seed %d: entry has no scalar parameter", seed)
		}
	}
}

func TestBodiesEndInReturn(t *testing.T) {
	prog := New(11, Default()).Program()
	for _, fn := range prog.Funcs {
		if len(fn.Insts) == 0 {
			t.Fatalf("%s has an empty body", fn.Name.Str)
		}
		if _, ok := fn.Insts[len(fn.Insts)-1].(*ir.ReturnInst); !ok {
			t.Errorf("%s does not end in a return", fn.Name.Str)
		}
	}
}

// With the budget at 4 an array element type is drawn with a budget of 2,
// which excludes arrays, so drawn types never nest arrays directly.
func TestLowBudgetPreventsNestedArrayTypes(t *testing.T) {
	tun := Default()
	tun.ArrayLimit = 4

	directNesting := func(ty ir.Type) bool {
		at, ok := ty.(ir.ArrayType)
		if !ok {
			return false
		}
		_, nested := at.Element.(ir.ArrayType)
		return nested
	}

	for seed := int64(1); seed <= 20; seed++ {
		prog := New(seed, tun).Program()
		for _, st := range prog.Structs {
			for i, prop := range st.Properties {
				if directNesting(prop) {
					t.Fatalf("seed %d: %s property %d is a nested array", seed, st.Name, i)
				}
			}
		}
		for _, fn := range prog.Funcs {
			for _, p := range fn.Params() {
				if directNesting(p.Ty) {
					t.Fatalf("seed %d: %s parameter %s is a nested array", seed, fn.Name.Str, p.Str)
				}
			}
		}
	}
}

func TestDeadCodeSweepIsIdempotent(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		prog := New(seed, Default()).Program()
		for _, fn := range prog.Funcs {
			before := len(fn.Insts)
			eliminateDead(fn)
			if len(fn.Insts) != before {
				t.Fatalf("seed %d: second sweep of %s removed %d instructions",
					seed, fn.Name.Str, before-len(fn.Insts))
			}
		}
	}
}

func TestComputeSizesCountsTransitively(t *testing.T) {
	// v1 = v0 + v0; v2 = v1 * v1; return v2
	fn := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: ir.Scalar},
			{Str: "v2", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.BinaryInst{Dst: 1, Left: 0, Op: ir.OpAdd, Right: 0},
			&ir.BinaryInst{Dst: 2, Left: 1, Op: ir.OpMul, Right: 1},
		},
	}

	sizes := computeSizes(fn)
	if sizes[0] != 1 {
		t.Errorf("Expected parameter size 1, got %d", sizes[0])
	}
	if sizes[1] != 3 {
		t.Errorf("Expected size 3 for v1, got %d", sizes[1])
	}
	if sizes[2] != 7 {
		t.Errorf("Expected size 7 for v2, got %d", sizes[2])
	}
}

func TestEliminateDeadDropsUnreachableWrites(t *testing.T) {
	//   var v1 = v0      (dead: nothing reads v1)
	//   v2 = v0 + v0     (live: returned)
	//   v1 = v2          (dead: v1 is dead)
	//   return v2
	fn := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: ir.Scalar},
			{Str: "v2", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.VarInst{Dst: 1, Src: 0},
			&ir.BinaryInst{Dst: 2, Left: 0, Op: ir.OpAdd, Right: 0},
			&ir.AssignInst{Target: 1, Src: 2},
			&ir.ReturnInst{Src: 2},
		},
	}

	eliminateDead(fn)
	if len(fn.Insts) != 2 {
		t.Fatalf("Expected 2 surviving instructions, got %d", len(fn.Insts))
	}
	if _, ok := fn.Insts[0].(*ir.BinaryInst); !ok {
		t.Errorf("Expected the binary instruction to survive, got %T", fn.Insts[0])
	}
	if _, ok := fn.Insts[1].(*ir.ReturnInst); !ok {
		t.Errorf("Expected the return to survive, got %T", fn.Insts[1])
	}
}

func TestEliminateDeadKeepsWritesThroughLiveVars(t *testing.T) {
	//   var v1 = v0
	//   v2 = v0 + v0
	//   v1 = v2          (live: v1 is returned)
	//   return v1
	fn := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: ir.Scalar},
			{Str: "v1", Ty: ir.Scalar},
			{Str: "v2", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.VarInst{Dst: 1, Src: 0},
			&ir.BinaryInst{Dst: 2, Left: 0, Op: ir.OpAdd, Right: 0},
			&ir.AssignInst{Target: 1, Src: 2},
			&ir.ReturnInst{Src: 1},
		},
	}

	eliminateDead(fn)
	if len(fn.Insts) != 4 {
		t.Fatalf("Expected all instructions to survive, got %d of 4", len(fn.Insts))
	}
}
