package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Format returns a readable listing of a program for debugging and test
// output. The listing is deterministic; it is not a parseable syntax.
func Format(p *Program) string {
	var sb strings.Builder

	for _, st := range p.Structs {
		props := make([]string, len(st.Properties))
		for i, prop := range st.Properties {
			props[i] = fmt.Sprintf("p%d: %s", i, prop)
		}
		fmt.Fprintf(&sb, "struct %s { %s }\n", st.Name, strings.Join(props, ", "))
	}

	for _, fn := range p.Funcs {
		formatFunc(&sb, fn)
	}

	if p.Meta != nil {
		kinds := make([]string, 0, len(p.Meta.OpCount))
		for kind := range p.Meta.OpCount {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		fmt.Fprintf(&sb, "meta: total=%d", p.Meta.TotalCount)
		for _, kind := range kinds {
			fmt.Fprintf(&sb, " %s=%d", kind, p.Meta.OpCount[kind])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFunc(sb *strings.Builder, fn *Func) {
	params := make([]string, fn.NumParams)
	for i, param := range fn.Params() {
		params[i] = fmt.Sprintf("%s: %s", param.Str, param.Ty)
	}
	fmt.Fprintf(sb, "func %s(%s) -> %s {\n", fn.Name.Str, strings.Join(params, ", "), fn.ReturnType())
	for _, inst := range fn.Insts {
		fmt.Fprintf(sb, "  %s\n", FormatInst(fn, inst))
	}
	sb.WriteString("}\n")
}

// FormatInst renders one instruction using the arena's identifiers.
func FormatInst(fn *Func, inst Inst) string {
	name := func(id NameID) string { return fn.Names[id].Str }
	names := func(ids []NameID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = name(id)
		}
		return strings.Join(parts, ", ")
	}

	switch inst := inst.(type) {
	case *BinaryInst:
		return fmt.Sprintf("%s = %s %s %s", name(inst.Dst), name(inst.Left), inst.Op, name(inst.Right))
	case *ReturnInst:
		return "return " + name(inst.Src)
	case *CallInst:
		return fmt.Sprintf("%s = f%d(%s)", name(inst.Dst), inst.Callee, names(inst.Args))
	case *VarInst:
		return fmt.Sprintf("var %s: %s = %s", name(inst.Dst), fn.Names[inst.Dst].Ty, name(inst.Src))
	case *AssignInst:
		return fmt.Sprintf("%s = %s", name(inst.Target), name(inst.Src))
	case *NewArrayInst:
		return fmt.Sprintf("%s = [%s]", name(inst.Dst), names(inst.Elems))
	case *ArrayGetInst:
		return fmt.Sprintf("%s = %s[%d]", name(inst.Dst), name(inst.Arr), inst.Index)
	case *ArraySetInst:
		return fmt.Sprintf("%s[%d] = %s", name(inst.Target), inst.Index, name(inst.Src))
	case *NewStructInst:
		return fmt.Sprintf("%s = %s(%s)", name(inst.Dst), fn.Names[inst.Dst].Ty, names(inst.Vals))
	case *StructGetInst:
		return fmt.Sprintf("%s = %s.p%d", name(inst.Dst), name(inst.Obj), inst.Index)
	case *StructSetInst:
		return fmt.Sprintf("%s.p%d = %s", name(inst.Target), inst.Index, name(inst.Src))
	default:
		return fmt.Sprintf("<unknown instruction %T>", inst)
	}
}
