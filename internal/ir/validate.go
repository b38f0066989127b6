package ir

import (
	"fmt"
)

// Validate checks a program's structural invariants and returns a list of
// problems. An empty slice indicates the program is well formed. Typing is
// correct by construction in the generator, so any problem reported here
// signals a defect in generation or pruning, not a rejectable candidate.
func Validate(p *Program) []string {
	var problems []string

	if len(p.Funcs) == 0 {
		return append(problems, "program has no functions")
	}

	entry := p.Funcs[0]
	if entry.Ordinal != 0 {
		problems = append(problems, fmt.Sprintf("entry function %s has ordinal %d, want 0", entry.Name.Str, entry.Ordinal))
	}
	if _, ok := entry.ReturnType().(ScalarType); !ok {
		problems = append(problems, fmt.Sprintf("entry function returns %s, want Float", entry.ReturnType()))
	}

	problems = append(problems, validateStructs(p.Structs)...)

	byOrdinal := make(map[int]*Func, len(p.Funcs))
	for _, fn := range p.Funcs {
		if prev, ok := byOrdinal[fn.Ordinal]; ok {
			problems = append(problems, fmt.Sprintf("functions %s and %s share ordinal %d", prev.Name.Str, fn.Name.Str, fn.Ordinal))
			continue
		}
		byOrdinal[fn.Ordinal] = fn
	}

	for _, fn := range p.Funcs {
		problems = append(problems, validateFunc(fn, byOrdinal)...)
	}

	return problems
}

// validateStructs checks that struct properties reference only structs
// declared earlier in the list.
func validateStructs(structs []*StructType) []string {
	var problems []string
	declared := make(map[*StructType]bool, len(structs))

	for _, st := range structs {
		for i, prop := range st.Properties {
			for _, ref := range structRefs(prop, nil) {
				if !declared[ref] {
					problems = append(problems, fmt.Sprintf("struct %s property %d references %s before its declaration", st.Name, i, ref.Name))
				}
			}
		}
		declared[st] = true
	}

	return problems
}

// structRefs appends the struct types reachable from ty to out.
func structRefs(ty Type, out []*StructType) []*StructType {
	switch ty := ty.(type) {
	case ScalarType:
		return out
	case ArrayType:
		return structRefs(ty.Element, out)
	case *StructType:
		return append(out, ty)
	default:
		panic(fmt.Sprintf("unknown type: %v", ty))
	}
}

// validateFunc checks a single function: scope order, single trailing
// return, write targets, index bounds, and operand/result types.
func validateFunc(fn *Func, byOrdinal map[int]*Func) []string {
	ctx := fmt.Sprintf("func %s", fn.Name.Str)
	var problems []string

	if fn.NumParams < 0 || fn.NumParams > len(fn.Names) {
		return append(problems, fmt.Sprintf("%s: parameter count %d exceeds name arena size %d", ctx, fn.NumParams, len(fn.Names)))
	}
	if len(fn.Insts) == 0 {
		return append(problems, fmt.Sprintf("%s: empty body", ctx))
	}

	seen := make(map[string]bool, len(fn.Names))
	for _, name := range fn.Names {
		if seen[name.Str] {
			problems = append(problems, fmt.Sprintf("%s: duplicate name %s in arena", ctx, name.Str))
		}
		seen[name.Str] = true
	}

	defined := make([]bool, len(fn.Names))
	mutable := make([]bool, len(fn.Names))
	for i := 0; i < fn.NumParams; i++ {
		defined[i] = true
	}

	// use reports whether id is a legal operand at instruction i. Type
	// checks on an illegal operand are skipped to avoid cascading noise.
	use := func(id NameID, what string, i int) bool {
		if id < 0 || int(id) >= len(fn.Names) {
			problems = append(problems, fmt.Sprintf("%s inst %d: %s id %d out of arena range", ctx, i, what, id))
			return false
		}
		if !defined[id] {
			problems = append(problems, fmt.Sprintf("%s inst %d: %s %s used before definition", ctx, i, what, fn.Names[id].Str))
			return false
		}
		return true
	}

	def := func(id NameID, i int) bool {
		if id < 0 || int(id) >= len(fn.Names) {
			problems = append(problems, fmt.Sprintf("%s inst %d: result id %d out of arena range", ctx, i, id))
			return false
		}
		if defined[id] {
			problems = append(problems, fmt.Sprintf("%s inst %d: %s defined twice", ctx, i, fn.Names[id].Str))
			return false
		}
		defined[id] = true
		return true
	}

	ty := func(id NameID) Type { return fn.Names[id].Ty }

	wantType := func(got, want Type, what string, i int) {
		if got != want {
			problems = append(problems, fmt.Sprintf("%s inst %d: %s has type %s, want %s", ctx, i, what, got, want))
		}
	}

	for i, inst := range fn.Insts {
		last := i == len(fn.Insts)-1
		if _, isReturn := inst.(*ReturnInst); isReturn != last {
			if isReturn {
				problems = append(problems, fmt.Sprintf("%s inst %d: return before end of body", ctx, i))
			} else {
				problems = append(problems, fmt.Sprintf("%s inst %d: body does not end in return", ctx, i))
			}
		}

		switch inst := inst.(type) {
		case *BinaryInst:
			if use(inst.Left, "left operand", i) {
				wantType(ty(inst.Left), Scalar, "left operand", i)
			}
			if use(inst.Right, "right operand", i) {
				wantType(ty(inst.Right), Scalar, "right operand", i)
			}
			if def(inst.Dst, i) {
				wantType(ty(inst.Dst), Scalar, "result", i)
			}

		case *ReturnInst:
			if use(inst.Src, "return operand", i) {
				wantType(ty(inst.Src), fn.ReturnType(), "return operand", i)
			}

		case *CallInst:
			callee, ok := byOrdinal[inst.Callee]
			if !ok {
				problems = append(problems, fmt.Sprintf("%s inst %d: call to unknown function f%d", ctx, i, inst.Callee))
				for _, arg := range inst.Args {
					use(arg, "argument", i)
				}
				def(inst.Dst, i)
				break
			}
			if inst.Callee <= fn.Ordinal {
				problems = append(problems, fmt.Sprintf("%s inst %d: call to f%d does not increase the ordinal", ctx, i, inst.Callee))
			}
			if len(inst.Args) != callee.NumParams {
				problems = append(problems, fmt.Sprintf("%s inst %d: call to %s passes %d arguments, want %d", ctx, i, callee.Name.Str, len(inst.Args), callee.NumParams))
			} else {
				for n, arg := range inst.Args {
					if use(arg, fmt.Sprintf("argument %d", n), i) {
						wantType(ty(arg), callee.Names[n].Ty, fmt.Sprintf("argument %d", n), i)
					}
				}
			}
			if def(inst.Dst, i) {
				wantType(ty(inst.Dst), callee.ReturnType(), "result", i)
			}

		case *VarInst:
			srcOK := use(inst.Src, "initializer", i)
			if def(inst.Dst, i) {
				if srcOK {
					wantType(ty(inst.Dst), ty(inst.Src), "variable", i)
				}
				mutable[inst.Dst] = true
			}

		case *AssignInst:
			if use(inst.Target, "target", i) {
				if !mutable[inst.Target] {
					problems = append(problems, fmt.Sprintf("%s inst %d: assignment to immutable name %s", ctx, i, fn.Names[inst.Target].Str))
				}
				if inst.Target == inst.Src {
					problems = append(problems, fmt.Sprintf("%s inst %d: self-assignment of %s", ctx, i, fn.Names[inst.Target].Str))
				}
				if use(inst.Src, "source", i) {
					wantType(ty(inst.Src), ty(inst.Target), "source", i)
				}
			}

		case *NewArrayInst:
			if def(inst.Dst, i) {
				at, ok := ty(inst.Dst).(ArrayType)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s inst %d: array literal result has type %s", ctx, i, ty(inst.Dst)))
					break
				}
				if len(inst.Elems) != at.Length {
					problems = append(problems, fmt.Sprintf("%s inst %d: array literal has %d elements, type wants %d", ctx, i, len(inst.Elems), at.Length))
				}
				for n, elem := range inst.Elems {
					if use(elem, fmt.Sprintf("element %d", n), i) {
						wantType(ty(elem), at.Element, fmt.Sprintf("element %d", n), i)
					}
				}
			}

		case *ArrayGetInst:
			if use(inst.Arr, "array operand", i) {
				at, ok := ty(inst.Arr).(ArrayType)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s inst %d: indexing non-array type %s", ctx, i, ty(inst.Arr)))
					def(inst.Dst, i)
					break
				}
				if inst.Index < 0 || inst.Index >= at.Length {
					problems = append(problems, fmt.Sprintf("%s inst %d: index %d out of bounds for %s", ctx, i, inst.Index, at))
				}
				if def(inst.Dst, i) {
					wantType(ty(inst.Dst), at.Element, "result", i)
				}
			}

		case *ArraySetInst:
			if use(inst.Target, "target", i) {
				if !mutable[inst.Target] {
					problems = append(problems, fmt.Sprintf("%s inst %d: write to immutable name %s", ctx, i, fn.Names[inst.Target].Str))
				}
				at, ok := ty(inst.Target).(ArrayType)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s inst %d: element write to non-array type %s", ctx, i, ty(inst.Target)))
					break
				}
				if inst.Index < 0 || inst.Index >= at.Length {
					problems = append(problems, fmt.Sprintf("%s inst %d: index %d out of bounds for %s", ctx, i, inst.Index, at))
				}
				if use(inst.Src, "source", i) {
					wantType(ty(inst.Src), at.Element, "source", i)
				}
			}

		case *NewStructInst:
			if def(inst.Dst, i) {
				st, ok := ty(inst.Dst).(*StructType)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s inst %d: struct literal result has type %s", ctx, i, ty(inst.Dst)))
					break
				}
				if len(inst.Vals) != len(st.Properties) {
					problems = append(problems, fmt.Sprintf("%s inst %d: struct literal has %d values, %s wants %d", ctx, i, len(inst.Vals), st.Name, len(st.Properties)))
					break
				}
				for n, val := range inst.Vals {
					if use(val, fmt.Sprintf("property %d", n), i) {
						wantType(ty(val), st.Properties[n], fmt.Sprintf("property %d", n), i)
					}
				}
			}

		case *StructGetInst:
			if use(inst.Obj, "struct operand", i) {
				st, ok := ty(inst.Obj).(*StructType)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s inst %d: property read on non-struct type %s", ctx, i, ty(inst.Obj)))
					def(inst.Dst, i)
					break
				}
				if inst.Index < 0 || inst.Index >= len(st.Properties) {
					problems = append(problems, fmt.Sprintf("%s inst %d: property %d out of bounds for %s", ctx, i, inst.Index, st.Name))
					def(inst.Dst, i)
					break
				}
				if def(inst.Dst, i) {
					wantType(ty(inst.Dst), st.Properties[inst.Index], "result", i)
				}
			}

		case *StructSetInst:
			if use(inst.Target, "target", i) {
				if !mutable[inst.Target] {
					problems = append(problems, fmt.Sprintf("%s inst %d: write to immutable name %s", ctx, i, fn.Names[inst.Target].Str))
				}
				st, ok := ty(inst.Target).(*StructType)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s inst %d: property write to non-struct type %s", ctx, i, ty(inst.Target)))
					break
				}
				if inst.Index < 0 || inst.Index >= len(st.Properties) {
					problems = append(problems, fmt.Sprintf("%s inst %d: property %d out of bounds for %s", ctx, i, inst.Index, st.Name))
					break
				}
				if use(inst.Src, "source", i) {
					wantType(ty(inst.Src), st.Properties[inst.Index], "source", i)
				}
			}

		default:
			problems = append(problems, fmt.Sprintf("%s inst %d: unknown instruction type %T", ctx, i, inst))
		}
	}

	return problems
}
