package emit

import (
	"fmt"
	"strings"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// swiftDialect renders Swift. Struct construction goes through the
// synthesized memberwise initializer, so constructor arguments carry their
// positional labels.
type swiftDialect struct{}

func (swiftDialect) Name() string { return "swift" }
func (swiftDialect) Ext() string  { return ".swift" }

func (d swiftDialect) typeStr(ty ir.Type) string {
	switch ty := ty.(type) {
	case ir.ScalarType:
		return "Double"
	case ir.ArrayType:
		return "[" + d.typeStr(ty.Element) + "]"
	case *ir.StructType:
		return ty.Name
	default:
		panic(fmt.Sprintf("unknown type: %v", ty))
	}
}

func (swiftDialect) prelude(w *writer) {
	w.emitLine("  import Dispatch")
}

func (d swiftDialect) structDecl(w *writer, st *ir.StructType) {
	w.emitf("  struct %s {\n", st.Name)
	for n, prop := range st.Properties {
		w.emitf("    var p%d: %s\n", n, d.typeStr(prop))
	}
	w.emitLine("  }")
}

func (d swiftDialect) funcOpen(w *writer, fn *ir.Func) {
	if fn.Ordinal == 0 {
		w.emitLine("  @inline(never)")
	}
	params := make([]string, fn.NumParams)
	for i, p := range fn.Params() {
		params[i] = fmt.Sprintf("_ %s: %s", p.Str, d.typeStr(p.Ty))
	}
	w.emitf("  func %s(%s) -> %s {\n", fn.Name.Str, strings.Join(params, ", "), d.typeStr(fn.ReturnType()))
}

func (swiftDialect) funcClose(w *writer, fn *ir.Func) {
	w.emitLine("  }")
}

func (d swiftDialect) inst(w *writer, sc *scope, node ir.Inst) {
	ty := func(id ir.NameID) string { return d.typeStr(sc.typeOf(id)) }
	switch inst := node.(type) {
	case *ir.ReturnInst:
		w.emitf("    return %s\n", sc.name(inst.Src))
	case *ir.BinaryInst:
		w.emitf("    let %s: %s = %s %s %s\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Left), inst.Op, sc.name(inst.Right))
	case *ir.CallInst:
		w.emitf("    let %s: %s = %s(%s)\n", sc.name(inst.Dst), ty(inst.Dst), sc.callee(inst.Callee), sc.list(inst.Args))
	case *ir.VarInst:
		w.emitf("    var %s: %s = %s\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Src))
	case *ir.AssignInst:
		w.emitf("    %s = %s\n", sc.name(inst.Target), sc.name(inst.Src))
	case *ir.NewArrayInst:
		w.emitf("    let %s: %s = [%s]\n", sc.name(inst.Dst), ty(inst.Dst), sc.list(inst.Elems))
	case *ir.ArrayGetInst:
		w.emitf("    let %s: %s = %s[%d]\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Arr), inst.Index)
	case *ir.ArraySetInst:
		w.emitf("    %s[%d] = %s\n", sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	case *ir.NewStructInst:
		args := make([]string, len(inst.Vals))
		for n, v := range inst.Vals {
			args[n] = fmt.Sprintf("p%d: %s", n, sc.name(v))
		}
		w.emitf("    let %s: %s = %s(%s)\n", sc.name(inst.Dst), ty(inst.Dst), ty(inst.Dst), strings.Join(args, ", "))
	case *ir.StructGetInst:
		w.emitf("    let %s: %s = %s.p%d\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Obj), inst.Index)
	case *ir.StructSetInst:
		w.emitf("    %s.p%d = %s\n", sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	default:
		panic(fmt.Sprintf("unknown instruction: %T", node))
	}
}

func (d swiftDialect) value(v ir.Value) string {
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
			parts[i] = fmt.Sprintf("p%d: %s", i, d.value(f))
		}
		return v.Name + "(" + strings.Join(parts, ", ") + ")"
	default:
		panic(fmt.Sprintf("unknown value: %T", v))
	}
}

func (d swiftDialect) harness(w *writer, p *ir.Program, iterations int) {
	entry := p.Entry()
	inputs := ir.InitialValues(paramTypes(entry))

	w.emitLine("  func benchmark() {")
	for n, v := range inputs {
		w.emitf("    let v%d: %s = %s\n", n, d.typeStr(entry.Params()[n].Ty), d.value(v))
	}
	w.emitLine("    let start = DispatchTime.now().uptimeNanoseconds")
	w.emitf("    var result: %s = %s\n", d.typeStr(entry.ReturnType()), d.value(seedValue(entry)))
	w.emitf("    for _ in 1...%d {\n", iterations)
	w.emitf("      result = %s(%s)\n", entry.Name.Str, invokeArgs(len(inputs)))
	w.emitLine("    }")
	w.emitLine("    let end = DispatchTime.now().uptimeNanoseconds")
	w.emitLine("    print(result)")
	w.emitLine("    print(end - start)")
	w.emitLine("  }")
	w.emitLine("  benchmark()")
}
