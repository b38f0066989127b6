package emit

import (
	"fmt"
	"strings"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// scalaDialect renders Scala. Arrays become immutable Vectors, so element
// and property writes rebind the enclosing var through updated and copy
// instead of mutating in place.
type scalaDialect struct{}

func (scalaDialect) Name() string { return "scala" }
func (scalaDialect) Ext() string  { return ".scala" }

func (d scalaDialect) typeStr(ty ir.Type) string {
	switch ty := ty.(type) {
	case ir.ScalarType:
		return "Double"
	case ir.ArrayType:
		return "Vector[" + d.typeStr(ty.Element) + "]"
	case *ir.StructType:
		return ty.Name
	default:
		panic(fmt.Sprintf("unknown type: %v", ty))
	}
}

func (scalaDialect) prelude(w *writer) {
	w.emitLine("import java.lang.System.nanoTime")
	w.emitLine("import scala.collection.immutable.Vector")
	w.emitLine("object Gen extends App {")
}

func (d scalaDialect) structDecl(w *writer, st *ir.StructType) {
	w.emitf("  case class %s (\n", st.Name)
	for n, prop := range st.Properties {
		sep := ","
		if n == len(st.Properties)-1 {
			sep = ""
		}
		w.emitf("    p%d: %s%s\n", n, d.typeStr(prop), sep)
	}
	w.emitLine("  )")
}

func (d scalaDialect) funcOpen(w *writer, fn *ir.Func) {
	if fn.Ordinal == 0 {
		w.emitLine("  @noinline")
	}
	params := make([]string, fn.NumParams)
	for i, p := range fn.Params() {
		params[i] = fmt.Sprintf("%s: %s", p.Str, d.typeStr(p.Ty))
	}
	w.emitf("  def %s(%s): %s = {\n", fn.Name.Str, strings.Join(params, ", "), d.typeStr(fn.ReturnType()))
}

func (scalaDialect) funcClose(w *writer, fn *ir.Func) {
	w.emitLine("  }")
}

func (d scalaDialect) inst(w *writer, sc *scope, node ir.Inst) {
	ty := func(id ir.NameID) string { return d.typeStr(sc.typeOf(id)) }
	switch inst := node.(type) {
	case *ir.ReturnInst:
		w.emitf("    %s\n", sc.name(inst.Src))
	case *ir.BinaryInst:
		w.emitf("    val %s: %s = %s %s %s\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Left), inst.Op, sc.name(inst.Right))
	case *ir.CallInst:
		w.emitf("    val %s: %s = %s(%s)\n", sc.name(inst.Dst), ty(inst.Dst), sc.callee(inst.Callee), sc.list(inst.Args))
	case *ir.VarInst:
		w.emitf("    var %s: %s = %s\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Src))
	case *ir.AssignInst:
		w.emitf("    %s = %s\n", sc.name(inst.Target), sc.name(inst.Src))
	case *ir.NewArrayInst:
		w.emitf("    val %s: %s = Vector(%s)\n", sc.name(inst.Dst), ty(inst.Dst), sc.list(inst.Elems))
	case *ir.ArrayGetInst:
		w.emitf("    val %s: %s = %s(%d)\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Arr), inst.Index)
	case *ir.ArraySetInst:
		w.emitf("    %s = %s.updated(%d, %s)\n", sc.name(inst.Target), sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	case *ir.NewStructInst:
		w.emitf("    val %s: %s = %s(%s)\n", sc.name(inst.Dst), ty(inst.Dst), ty(inst.Dst), sc.list(inst.Vals))
	case *ir.StructGetInst:
		w.emitf("    val %s: %s = %s.p%d\n", sc.name(inst.Dst), ty(inst.Dst), sc.name(inst.Obj), inst.Index)
	case *ir.StructSetInst:
		w.emitf("    %s = %s.copy(p%d = %s)\n", sc.name(inst.Target), sc.name(inst.Target), inst.Index, sc.name(inst.Src))
	default:
		panic(fmt.Sprintf("unknown instruction: %T", node))
	}
}

func (d scalaDialect) value(v ir.Value) string {
	switch v := v.(type) {
	case ir.ScalarValue:
		return formatScalar(float64(v))
	case ir.ArrayValue:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = d.value(elem)
		}
		return "Vector(" + strings.Join(parts, ", ") + ")"
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

func (d scalaDialect) harness(w *writer, p *ir.Program, iterations int) {
	entry := p.Entry()
	inputs := ir.InitialValues(paramTypes(entry))

	w.emitLine("  def benchmark(): Unit = {")
	for n, v := range inputs {
		w.emitf("    val v%d: %s = %s\n", n, d.typeStr(entry.Params()[n].Ty), d.value(v))
	}
	w.emitLine("    val start = nanoTime()")
	w.emitf("    var result: %s = %s\n", d.typeStr(entry.ReturnType()), d.value(seedValue(entry)))
	w.emitf("    (1 to %d).foreach { _ =>\n", iterations)
	w.emitf("      result = %s(%s)\n", entry.Name.Str, invokeArgs(len(inputs)))
	w.emitLine("    }")
	w.emitLine("    val end = nanoTime()")
	w.emitLine("    println(result)")
	w.emitLine("    println(end - start)")
	w.emitLine("  }")
	w.emitLine("  benchmark()")
	w.emit("}")
}
