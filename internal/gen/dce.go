package gen

import "github.com/mvs-lang/benchgen/internal/ir"

// resultOf returns the name defined by inst. Writes and returns define
// nothing.
func resultOf(inst ir.Inst) (ir.NameID, bool) {
	switch inst := inst.(type) {
	case *ir.BinaryInst:
		return inst.Dst, true
	case *ir.CallInst:
		return inst.Dst, true
	case *ir.VarInst:
		return inst.Dst, true
	case *ir.NewArrayInst:
		return inst.Dst, true
	case *ir.ArrayGetInst:
		return inst.Dst, true
	case *ir.NewStructInst:
		return inst.Dst, true
	case *ir.StructGetInst:
		return inst.Dst, true
	default:
		return 0, false
	}
}

// computeUses maps every defined name to the names its value was built
// from. A write through a var appends the written value to the var's own
// list, so a var carries everything ever stored into it. Parameters have
// no uses.
func computeUses(fn *ir.Func) [][]ir.NameID {
	uses := make([][]ir.NameID, len(fn.Names))

	for _, inst := range fn.Insts {
		switch inst := inst.(type) {
		case *ir.BinaryInst:
			uses[inst.Dst] = []ir.NameID{inst.Left, inst.Right}
		case *ir.CallInst:
			uses[inst.Dst] = inst.Args
		case *ir.VarInst:
			uses[inst.Dst] = []ir.NameID{inst.Src}
		case *ir.AssignInst:
			uses[inst.Target] = append(uses[inst.Target], inst.Src)
		case *ir.NewArrayInst:
			uses[inst.Dst] = inst.Elems
		case *ir.ArrayGetInst:
			uses[inst.Dst] = []ir.NameID{inst.Arr}
		case *ir.ArraySetInst:
			uses[inst.Target] = append(uses[inst.Target], inst.Src)
		case *ir.NewStructInst:
			uses[inst.Dst] = inst.Vals
		case *ir.StructGetInst:
			uses[inst.Dst] = []ir.NameID{inst.Obj}
		case *ir.StructSetInst:
			uses[inst.Target] = append(uses[inst.Target], inst.Src)
		}
	}
	return uses
}

// computeSizes scores every defined name by the number of instructions
// feeding it. Names are scored in definition order; a use not scored yet
// counts as 1.
func computeSizes(fn *ir.Func) []int {
	uses := computeUses(fn)
	sizes := make([]int, len(fn.Names))
	for i := range sizes {
		sizes[i] = 1
	}

	for _, inst := range fn.Insts {
		if dst, ok := resultOf(inst); ok {
			total := 1
			for _, use := range uses[dst] {
				total += sizes[use]
			}
			sizes[dst] = total
		}
	}
	return sizes
}

// eliminateDead removes instructions that feed nothing the function
// returns. The return survives always; writes survive only when their
// target is alive. Instruction order is preserved.
func eliminateDead(fn *ir.Func) {
	uses := computeUses(fn)
	used := make([]bool, len(fn.Names))

	var mark func(id ir.NameID)
	mark = func(id ir.NameID) {
		if used[id] {
			return
		}
		used[id] = true
		for _, use := range uses[id] {
			mark(use)
		}
	}
	ret := fn.Insts[len(fn.Insts)-1].(*ir.ReturnInst)
	mark(ret.Src)

	kept := make([]ir.Inst, 0, len(fn.Insts))
	for _, inst := range fn.Insts {
		switch inst := inst.(type) {
		case *ir.ReturnInst:
			kept = append(kept, inst)
		case *ir.AssignInst:
			if used[inst.Target] {
				kept = append(kept, inst)
			}
		case *ir.ArraySetInst:
			if used[inst.Target] {
				kept = append(kept, inst)
			}
		case *ir.StructSetInst:
			if used[inst.Target] {
				kept = append(kept, inst)
			}
		default:
			if dst, ok := resultOf(inst); ok && used[dst] {
				kept = append(kept, inst)
			}
		}
	}
	fn.Insts = kept
}
