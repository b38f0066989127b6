// Package emit renders validated programs as source text in each target
// dialect. One shared traversal drives every rendition, so the emitted
// programs agree on declaration order, instruction order, call graph, and
// initial values; the dialect contributes only the spelling.
package emit

import (
	"fmt"
	"strings"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// Dialect is the strategy for one target syntax. Render owns the program
// traversal; the dialect supplies the spelling of each construct.
type Dialect interface {
	// Name returns the dialect name used for selection (e.g. "cpp").
	Name() string
	// Ext returns the rendered file's extension, including the dot.
	Ext() string

	prelude(w *writer)
	structDecl(w *writer, st *ir.StructType)
	funcOpen(w *writer, fn *ir.Func)
	funcClose(w *writer, fn *ir.Func)
	inst(w *writer, sc *scope, node ir.Inst)
	harness(w *writer, p *ir.Program, iterations int)
}

var (
	CPP   Dialect = cppDialect{}
	Scala Dialect = scalaDialect{}
	Swift Dialect = swiftDialect{}
	MVS   Dialect = mvsDialect{}
)

// All returns the dialects in canonical emission order.
func All() []Dialect {
	return []Dialect{CPP, Scala, Swift, MVS}
}

// ByName returns the dialect with the given name.
func ByName(name string) (Dialect, error) {
	switch name {
	case "cpp":
		return CPP, nil
	case "scala":
		return Scala, nil
	case "swift":
		return Swift, nil
	case "mvs":
		return MVS, nil
	default:
		return nil, fmt.Errorf("unknown dialect: %s", name)
	}
}

// Render produces the d rendition of p: prelude, struct declarations,
// functions, then a benchmark harness that invokes the entry function
// iterations times inside its timed region.
func Render(d Dialect, p *ir.Program, iterations int) string {
	callees := make(map[int]string, len(p.Funcs))
	for _, fn := range p.Funcs {
		callees[fn.Ordinal] = fn.Name.Str
	}

	w := &writer{}
	d.prelude(w)
	for _, st := range p.Structs {
		d.structDecl(w, st)
	}
	// Call edges go to higher ordinals, so reverse declaration order
	// declares every callee before its callers.
	for i := len(p.Funcs) - 1; i >= 0; i-- {
		fn := p.Funcs[i]
		sc := &scope{fn: fn, callees: callees}
		d.funcOpen(w, fn)
		for _, node := range fn.Insts {
			d.inst(w, sc, node)
		}
		d.funcClose(w, fn)
	}
	d.harness(w, p, iterations)
	return w.sb.String()
}

// --- Rendering state ---

type writer struct {
	sb strings.Builder
}

func (w *writer) emit(s string) {
	w.sb.WriteString(s)
}

func (w *writer) emitf(format string, args ...any) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

func (w *writer) emitLine(s string) {
	w.sb.WriteString(s)
	w.sb.WriteString("\n")
}

// scope resolves one function's arena-indexed operands while it renders.
type scope struct {
	fn      *ir.Func
	callees map[int]string
}

func (s *scope) name(id ir.NameID) string    { return s.fn.Names[id].Str }
func (s *scope) typeOf(id ir.NameID) ir.Type { return s.fn.Names[id].Ty }
func (s *scope) callee(ordinal int) string   { return s.callees[ordinal] }

// list renders operands as a comma-separated argument list.
func (s *scope) list(ids []ir.NameID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = s.name(id)
	}
	return strings.Join(parts, ", ")
}

// --- Shared harness pieces ---

// formatScalar formats a scalar literal with an explicit decimal point, so
// whole values render as 0.0 rather than 0.
func formatScalar(v float64) string {
	s := fmt.Sprintf("%g", v)
	for _, ch := range s {
		if ch == '.' || ch == 'e' || ch == 'E' {
			return s
		}
	}
	return s + ".0"
}

func paramTypes(fn *ir.Func) []ir.Type {
	tys := make([]ir.Type, fn.NumParams)
	for i, p := range fn.Params() {
		tys[i] = p.Ty
	}
	return tys
}

// invokeArgs renders the harness argument list v0, v1, ... for n inputs.
func invokeArgs(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("v%d", i)
	}
	return strings.Join(parts, ", ")
}

// seedValue is the value the harness's result accumulator starts from,
// built from the entry's return type the same way the inputs are built
// from its parameter types.
func seedValue(entry *ir.Func) ir.Value {
	return ir.InitialValues([]ir.Type{entry.ReturnType()})[0]
}
