package emit

import (
	"fmt"
	"strings"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// cppDialect renders C++. Arrays become std::vector, structs become plain
// structs with a positional constructor, and the harness times the
// benchmark loop with the high-resolution clock.
type cppDialect struct{}

func (cppDialect) Name() string { return "cpp" }
func (cppDialect) Ext() string  { return ".cpp" }

func (d cppDialect) typeStr(ty ir.Type) string {
	switch ty := ty.(type) {
	case ir.ScalarType:
		return "double"
	case ir.ArrayType:
		return "std::vector<" + d.typeStr(ty.Element) + ">"
	case *ir.StructType:
		return ty.Name
	default:
		panic(fmt.Sprintf("unknown type: %v", ty))
	}
}

func (cppDialect) prelude(w *writer) {
	w.emitLine("  #include <vector>")
	w.emitLine("  #include <iostream>")
	w.emitLine("  #include <chrono>")
}

func (d cppDialect) structDecl(w *writer, st *ir.StructType) {
	w.emitf("  struct %s {\n", st.Name)
	for n, prop := range st.Properties {
		w.emitf("    %s p%d;\n", d.typeStr(prop), n)
	}
	params := make([]string, len(st.Properties))
	inits := make([]string, len(st.Properties))
	for n, prop := range st.Properties {
		params[n] = fmt.Sprintf("%s v%d", d.typeStr(prop), n)
		inits[n] = fmt.Sprintf("p%d(v%d)", n, n)
	}
	w.emitf("    %s(%s): %s { }\n", st.Name, strings.Join(params, ", "), strings.Join(inits, ", "))
	w.emitLine("  };")
}

func (d cppDialect) funcOpen(w *writer, fn *ir.Func) {
	if fn.Ordinal == 0 {
		w.emitLine("  __attribute__((noinline))")
	}
	params := make([]string, fn.NumParams)
	for i, p := range fn.Params() {
		params[i] = fmt.Sprintf("const %s &%s", d.typeStr(p.Ty), p.Str)
	}
	w.emitf("  %s %s(%s) {\n", d.typeStr(fn.ReturnType()), fn.Name.Str, strings.Join(params, ", "))
}

func (cppDialect) funcClose(w *writer, fn *ir.Func) {
	w.emitLine("  }")
}

func (d cppDialect) inst(w *writer, sc *scope, node ir.Inst) {
	ty := func(id ir.NameID) string { return d.typeStr(sc.typeOf(id)) }
	switch inst := node.(type) {
	case *ir.ReturnInst:
		w.emitf("    return %s;\n", sc.name(inst.Src))
	case *ir.BinaryInst:
		w.emitf("    const %s %s = %s %s %s;\n", ty(inst.Dst), sc.name(inst.Dst), sc.name(inst.Left), inst.Op, sc.name(inst.Right))
	case *ir.CallInst:
		w.emitf("    const %s %s = %s(%s);\n", ty(inst.Dst), sc.name(inst.Dst), sc.callee(inst.Callee), sc.list(inst.Args))
	case *ir.VarInst:
		w.emitf("    %s %s = %s;\n", ty(inst.Dst), sc.name(inst.Dst), sc.name(inst.Src))
	case *ir.AssignInst:
		w.emitf("    %s = %s;\n", sc.name(inst.Target), sc.name(inst.Src))
	case *ir.NewArrayInst:
		w.emitf("    const %s %s { %s };\n", ty(inst.Dst), sc.name(inst.Dst), sc.list(inst.Elems))
	case *ir.ArrayGetInst:
		w.emitf("    const %s %s = %s[%d];\n", ty(inst.Dst), sc.name(inst.Dst), sc.name(inst.Arr), inst.Index)
	case *ir.ArraySetInst:
		w.emitf("    %s[%d] = %s;\n", sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	case *ir.NewStructInst:
		w.emitf("    const %s %s(%s);\n", ty(inst.Dst), sc.name(inst.Dst), sc.list(inst.Vals))
	case *ir.StructGetInst:
		w.emitf("    const %s %s = %s.p%d;\n", ty(inst.Dst), sc.name(inst.Dst), sc.name(inst.Obj), inst.Index)
	case *ir.StructSetInst:
		w.emitf("    %s.p%d = %s;\n", sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	default:
		panic(fmt.Sprintf("unknown instruction: %T", node))
	}
}

func (d cppDialect) value(v ir.Value) string {
	switch v := v.(type) {
	case ir.ScalarValue:
		return formatScalar(float64(v))
	case ir.ArrayValue:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = d.value(elem)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case ir.StructValue:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = d.value(f)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		panic(fmt.Sprintf("unknown value: %T", v))
	}
}

func (d cppDialect) harness(w *writer, p *ir.Program, iterations int) {
	entry := p.Entry()
	inputs := ir.InitialValues(paramTypes(entry))

	w.emitf("  %s benchmark() {\n", d.typeStr(entry.ReturnType()))
	for n, v := range inputs {
		w.emitf("    %s v%d(%s);\n", d.typeStr(entry.Params()[n].Ty), n, d.value(v))
	}
	w.emitf("    return %s(%s);\n", entry.Name.Str, invokeArgs(len(inputs)))
	w.emitLine("  }")

	w.emitLine("  int main() {")
	w.emitLine("    auto start = std::chrono::high_resolution_clock::now();")
	w.emitf("    %s result;\n", d.typeStr(entry.ReturnType()))
	w.emitf("    for (int i = 0; i < %d; i ++) {\n", iterations)
	w.emitLine("      result = benchmark();")
	w.emitLine("    }")
	w.emitLine("    auto end = std::chrono::high_resolution_clock::now();")
	w.emitLine("    double value = *((double*) &result);")
	w.emitLine("    std::cout << value << \"\\n\";")
	w.emitLine("    std::cout << std::chrono::duration_cast<std::chrono::nanoseconds>(end-start).count();")
	w.emitLine("    std::cout << \"\\n\";")
	w.emitLine("    return 0;")
	w.emitLine("  }")
}
