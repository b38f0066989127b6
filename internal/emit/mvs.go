package emit

import (
	"fmt"
	"strings"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// mvsDialect renders MVS, an expression language: every binding and
// declaration is a link in one let ... in chain, a function body evaluates
// to its final expression, and the benchmark loop is a recursive function.
// The entry function is marked by a noinline_ name prefix rather than an
// attribute.
type mvsDialect struct{}

func (mvsDialect) Name() string { return "mvs" }
func (mvsDialect) Ext() string  { return ".mvs" }

func (d mvsDialect) typeStr(ty ir.Type) string {
	switch ty := ty.(type) {
	case ir.ScalarType:
		return "Float"
	case ir.ArrayType:
		return "[" + d.typeStr(ty.Element) + "]"
	case *ir.StructType:
		return ty.Name
	default:
		panic(fmt.Sprintf("unknown type: %v", ty))
	}
}

func (mvsDialect) prelude(w *writer) {}

func (d mvsDialect) structDecl(w *writer, st *ir.StructType) {
	w.emitf("  struct %s {\n", st.Name)
	for n, prop := range st.Properties {
		w.emitf("    var p%d: %s\n", n, d.typeStr(prop))
	}
	w.emitLine("  } in")
}

func (d mvsDialect) funcOpen(w *writer, fn *ir.Func) {
	name := fn.Name.Str
	if fn.Ordinal == 0 {
		name = "noinline_" + name
	}
	params := make([]string, fn.NumParams)
	tys := make([]string, fn.NumParams)
	for i, p := range fn.Params() {
		params[i] = fmt.Sprintf("%s: %s", p.Str, d.typeStr(p.Ty))
		tys[i] = d.typeStr(p.Ty)
	}
	ret := d.typeStr(fn.ReturnType())
	w.emitf("  let %s: (%s) -> %s = (%s) -> %s {\n", name, strings.Join(tys, ", "), ret, strings.Join(params, ", "), ret)
}

func (mvsDialect) funcClose(w *writer, fn *ir.Func) {
	w.emitLine("  } in")
}

func (d mvsDialect) inst(w *writer, sc *scope, node ir.Inst) {
	ty := func(id ir.NameID) string { return d.typeStr(sc.typeOf(id)) }
	switch inst := node.(type) {
	case *ir.ReturnInst:
		w.emitf("    %s\n", sc.name(inst.Src))
	case *ir.BinaryInst:
		w.emitf("    let %s: %s = %s %s %s in\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Left), inst.Op, sc.name(inst.Right))
	case *ir.CallInst:
		w.emitf("    let %s: %s = %s(%s) in\n", sc.name(inst.Dst), ty(inst.Dst), sc.callee(inst.Callee), sc.list(inst.Args))
	case *ir.VarInst:
		w.emitf("    var %s: %s = %s in\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Src))
	case *ir.AssignInst:
		w.emitf("    %s = %s in\n", sc.name(inst.Target), sc.name(inst.Src))
	case *ir.NewArrayInst:
		w.emitf("    let %s: %s = [%s] in\n", sc.name(inst.Dst), ty(inst.Dst), sc.list(inst.Elems))
	case *ir.ArrayGetInst:
		w.emitf("    let %s: %s = %s[%d] in\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Arr), inst.Index)
	case *ir.ArraySetInst:
		w.emitf("    %s[%d] = %s in\n", sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	case *ir.NewStructInst:
		w.emitf("    let %s: %s = %s(%s) in\n", sc.name(inst.Dst), ty(inst.Dst), ty(inst.Dst), sc.list(inst.Vals))
	case *ir.StructGetInst:
		w.emitf("    let %s: %s = %s.p%d in\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Obj), inst.Index)
	case *ir.StructSetInst:
		w.emitf("    %s.p%d = %s in\n", sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	default:
		panic(fmt.Sprintf("unknown instruction: %T", node))
	}
}

func (d mvsDialect) value(v ir.Value) string {
	switch v := v.(type) {
	case ir.ScalarValue:
		return formatScalar(float64(v))
	case ir.ArrayValue:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = d.value(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ir.StructValue:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = d.value(f)
		}
		return v.Name + "(" + strings.Join(parts, ", ") + ")"
	default:
		panic(fmt.Sprintf("unknown value: %T", v))
	}
}

func (d mvsDialect) harness(w *writer, p *ir.Program, iterations int) {
	entry := p.Entry()
	inputs := ir.InitialValues(paramTypes(entry))
	ret := d.typeStr(entry.ReturnType())
	args := invokeArgs(len(inputs))

	params := make([]string, len(inputs))
	for n, prm := range entry.Params() {
		params[n] = fmt.Sprintf("v%d: %s", n, d.typeStr(prm.Ty))
	}

	w.emitf("  fun loop(i: Int, %s, result: %s) -> %s {\n", strings.Join(params, ", "), ret, ret)
	w.emitf("    if i >= %d ? result ! (\n", iterations)
	w.emitf("      let newResult: %s = noinline_%s(%s) in\n", ret, entry.Name.Str, args)
	w.emitf("      loop(i + 1, %s, newResult)\n", args)
	w.emitLine("    )")
	w.emitLine("  } in")

	w.emitf("  let main: () -> %s = () -> %s {\n", ret, ret)
	for n, v := range inputs {
		w.emitf("    let v%d: %s = %s in\n", n, d.typeStr(entry.Params()[n].Ty), d.value(v))
	}
	w.emitf("    let initialResult: %s = %s in\n", ret, d.value(seedValue(entry)))
	w.emitLine("    let start: Float = uptime() in")
	w.emitf("    let result: %s = loop(0, %s, initialResult) in\n", ret, args)
	w.emitLine("    let end: Float = uptime() in")
	w.emitLine("    end - start")
	w.emitLine("  } in")
	w.emit("main()")
}
