package gen

import (
	"fmt"
	"sort"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// Generator produces random well-typed programs. All randomness flows
// through a single stream, so the same seed and tunables yield the same
// program.
type Generator struct {
	rand *Stream
	tun  Tunables
}

// New creates a Generator drawing from a fresh stream seeded with seed.
func New(seed int64, tun Tunables) *Generator {
	return FromStream(NewStream(seed), tun)
}

// FromStream creates a Generator drawing from an existing stream. Callers
// that generate candidates in a loop share one stream so every candidate
// is distinct.
func FromStream(r *Stream, tun Tunables) *Generator {
	return &Generator{rand: r, tun: tun}
}

// Program generates one candidate program: struct declarations first, then
// every function signature, then the function bodies. A body may call any
// function declared after its own, so the call graph is a DAG rooted at the
// entry function. Candidates are well-formed by construction but not yet
// screened for runtime behavior.
func (g *Generator) Program() *ir.Program {
	structs := g.genStructs()
	funcs := g.genSignatures(structs)
	for _, fn := range funcs {
		g.genBody(fn, funcs, structs)
	}
	return &ir.Program{Structs: structs, Funcs: funcs}
}

// genStructs declares the program's struct types. Property types may use
// the structs declared so far, so declarations never form a cycle.
func (g *Generator) genStructs() []*ir.StructType {
	count := g.rand.IntRange(0, g.tun.StructLimit)
	structs := make([]*ir.StructType, 0, count)

	for i := 0; i < count; i++ {
		props := make([]ir.Type, g.pickCount(g.tun.PropertyCountWeights))
		for j := range props {
			props[j] = g.newType(structs)
		}
		structs = append(structs, &ir.StructType{
			Name:       fmt.Sprintf("s%d", i),
			Properties: props,
		})
	}
	return structs
}

// genSignatures draws every function's parameter list and return type. The
// return type is always the type of one of the function's own parameters,
// which keeps every signature satisfiable without further values in scope.
// The entry function must return a scalar because its result feeds the
// benchmark accumulator; when it draws no scalar parameter, one extra
// scalar parameter is appended.
func (g *Generator) genSignatures(structs []*ir.StructType) []*ir.Func {
	funcs := make([]*ir.Func, g.rand.IntRange(1, g.tun.FuncLimit))

	for i := range funcs {
		params := make([]ir.Name, g.pickCount(g.tun.ParamCountWeights))
		for j := range params {
			params[j] = ir.Name{Str: fmt.Sprintf("v%d", j), Ty: g.newType(structs)}
		}
		funcs[i] = &ir.Func{
			Ordinal:   i,
			Name:      ir.Name{Str: fmt.Sprintf("f%d", i)},
			NumParams: len(params),
			Names:     params,
		}
	}

	for i, fn := range funcs {
		options := fn.Params()
		if i == 0 {
			var scalars []ir.Name
			for _, p := range options {
				if isScalar(p.Ty) {
					scalars = append(scalars, p)
				}
			}
			if len(scalars) == 0 {
				extra := ir.Name{Str: fmt.Sprintf("v%d", fn.NumParams), Ty: ir.Scalar}
				fn.Names = append(fn.Names, extra)
				fn.NumParams++
				scalars = append(scalars, extra)
			}
			options = scalars
		}
		fn.Name.Ty = PickOne(g.rand, options).Ty
	}
	return funcs
}

// pickCount draws from a 1-based count table: entry i weights a count of
// i+1.
func (g *Generator) pickCount(weights []int) int {
	table := make([]Choice[int], len(weights))
	for i, w := range weights {
		table[i] = Choice[int]{Value: i + 1, Weight: w}
	}
	return PickWeighted(g.rand, table)
}

// genBody fills in one function: a random number of instructions drawn one
// at a time against the names in scope, a return of one of the larger
// values built along the way, then a sweep of everything the return does
// not depend on.
func (g *Generator) genBody(fn *ir.Func, funcs []*ir.Func, structs []*ir.StructType) {
	b := &bodyBuilder{g: g, fn: fn, funcs: funcs, structs: structs, env: newNameEnv()}
	for i := 0; i < fn.NumParams; i++ {
		b.env.add(fn.Names[i].Ty, ir.NameID(i))
	}

	count := g.rand.IntRange(g.tun.InstMin, g.tun.InstLimit)
	for i := 0; i < count; i++ {
		b.add(b.genInst())
	}
	b.appendReturn()
	eliminateDead(fn)
}

// --- Name environment ---

// nameEnv tracks which names hold a value of each type. Both axes keep
// insertion order, so uniform draws over "every inhabited type" and "every
// name of a type" are deterministic.
type nameEnv struct {
	order []ir.Type
	names map[ir.Type][]ir.NameID
}

func newNameEnv() *nameEnv {
	return &nameEnv{names: make(map[ir.Type][]ir.NameID)}
}

func (e *nameEnv) add(ty ir.Type, id ir.NameID) {
	if _, ok := e.names[ty]; !ok {
		e.order = append(e.order, ty)
	}
	e.names[ty] = append(e.names[ty], id)
}

// inhabited reports whether at least n names of type ty are in scope.
func (e *nameEnv) inhabited(ty ir.Type, n int) bool {
	return len(e.names[ty]) >= n
}

// of returns the names of type ty in definition order.
func (e *nameEnv) of(ty ir.Type) []ir.NameID {
	return e.names[ty]
}

// typesWhere returns every inhabited type satisfying pred, or all
// inhabited types when pred is nil.
func (e *nameEnv) typesWhere(pred func(ir.Type) bool) []ir.Type {
	var out []ir.Type
	for _, ty := range e.order {
		if len(e.names[ty]) > 0 && (pred == nil || pred(ty)) {
			out = append(out, ty)
		}
	}
	return out
}

func isScalar(ty ir.Type) bool {
	_, ok := ty.(ir.ScalarType)
	return ok
}

func isNonemptyArray(ty ir.Type) bool {
	at, ok := ty.(ir.ArrayType)
	return ok && at.Length > 0
}

func isStruct(ty ir.Type) bool {
	_, ok := ty.(*ir.StructType)
	return ok
}

// --- Body building ---

type instKind int

const (
	kindCall instKind = iota
	kindBinary
	kindVar
	kindAssign
	kindNewArray
	kindArrayGet
	kindArraySet
	kindNewStruct
	kindStructGet
	kindStructSet
)

// bodyBuilder accumulates one function body. vars lists the names declared
// with var, the only names that writes may target.
type bodyBuilder struct {
	g       *Generator
	fn      *ir.Func
	funcs   []*ir.Func
	structs []*ir.StructType
	env     *nameEnv
	vars    []ir.NameID
}

// define appends a fresh arena name of type ty. The name enters scope only
// when its instruction is added, so operand picks never see it.
func (b *bodyBuilder) define(ty ir.Type) ir.NameID {
	id := ir.NameID(len(b.fn.Names))
	b.fn.Names = append(b.fn.Names, ir.Name{Str: b.freshStr(), Ty: ty})
	return id
}

// freshStr draws an identifier not used in this function yet. The draw
// space starts small and grows by a fifth on every collision.
func (b *bodyBuilder) freshStr() string {
	top := 8
	s := fmt.Sprintf("v%d", b.g.rand.Intn(top))
	for b.taken(s) {
		top = top * 6 / 5
		s = fmt.Sprintf("v%d", b.g.rand.Intn(top))
	}
	return s
}

func (b *bodyBuilder) taken(s string) bool {
	for _, n := range b.fn.Names {
		if n.Str == s {
			return true
		}
	}
	return false
}

// pickValue returns a uniform name of type ty.
func (b *bodyBuilder) pickValue(ty ir.Type) ir.NameID {
	return PickOne(b.g.rand, b.env.of(ty))
}

// pickValueExcept returns a uniform name of type ty other than skip.
func (b *bodyBuilder) pickValueExcept(ty ir.Type, skip ir.NameID) ir.NameID {
	all := b.env.of(ty)
	candidates := make([]ir.NameID, 0, len(all)-1)
	for _, id := range all {
		if id != skip {
			candidates = append(candidates, id)
		}
	}
	return PickOne(b.g.rand, candidates)
}

// add appends inst to the body and brings its result, if any, into scope.
func (b *bodyBuilder) add(inst ir.Inst) {
	b.fn.Insts = append(b.fn.Insts, inst)
	if dst, ok := resultOf(inst); ok {
		b.env.add(b.fn.Names[dst].Ty, dst)
		if _, isVar := inst.(*ir.VarInst); isVar {
			b.vars = append(b.vars, dst)
		}
	}
}

// genInst draws one instruction the current scope can support. Forms whose
// operands cannot be found are left out of the draw entirely, so generation
// never backtracks.
func (b *bodyBuilder) genInst() ir.Inst {
	g := b.g

	// Only functions with a higher ordinal are callable, and only when
	// every parameter type has a value in scope.
	var callable []*ir.Func
	for _, fn := range b.funcs[b.fn.Ordinal+1:] {
		ok := true
		for _, p := range fn.Params() {
			if !b.env.inhabited(p.Ty, 1) {
				ok = false
				break
			}
		}
		if ok {
			callable = append(callable, fn)
		}
	}

	// A var is assignable when a second distinct value of its type exists,
	// because a var cannot be assigned to itself. Element and property
	// writes additionally need a value of the written slot's type.
	var assignableVars, assignableArrays, assignableStructs []ir.NameID
	for _, id := range b.vars {
		ty := b.fn.Names[id].Ty
		if b.env.inhabited(ty, 2) {
			assignableVars = append(assignableVars, id)
		}
		if at, ok := ty.(ir.ArrayType); ok && b.env.inhabited(at.Element, 1) {
			assignableArrays = append(assignableArrays, id)
		}
		if st, ok := ty.(*ir.StructType); ok {
			for _, prop := range st.Properties {
				if b.env.inhabited(prop, 1) {
					assignableStructs = append(assignableStructs, id)
					break
				}
			}
		}
	}

	scalarTypes := b.env.typesWhere(isScalar)
	arrayTypes := b.env.typesWhere(isNonemptyArray)
	structTypes := b.env.typesWhere(isStruct)
	var constructible []*ir.StructType
	for _, st := range b.structs {
		ok := true
		for _, prop := range st.Properties {
			if !b.env.inhabited(prop, 1) {
				ok = false
				break
			}
		}
		if ok {
			constructible = append(constructible, st)
		}
	}

	w := g.tun.InstWeights
	table := make([]Choice[instKind], 0, 10)
	if len(callable) > 0 {
		table = append(table, Choice[instKind]{Value: kindCall, Weight: w.Call})
	}
	if len(scalarTypes) > 0 {
		table = append(table, Choice[instKind]{Value: kindBinary, Weight: w.Binary})
	}
	table = append(table, Choice[instKind]{Value: kindVar, Weight: w.Var})
	if len(assignableVars) > 0 {
		table = append(table, Choice[instKind]{Value: kindAssign, Weight: w.Assign})
	}
	table = append(table, Choice[instKind]{Value: kindNewArray, Weight: w.NewArray})
	if len(arrayTypes) > 0 {
		table = append(table, Choice[instKind]{Value: kindArrayGet, Weight: w.ArrayGet})
	}
	if len(assignableArrays) > 0 {
		table = append(table, Choice[instKind]{Value: kindArraySet, Weight: w.ArraySet})
	}
	if len(constructible) > 0 {
		table = append(table, Choice[instKind]{Value: kindNewStruct, Weight: w.NewStruct})
	}
	if len(structTypes) > 0 {
		table = append(table, Choice[instKind]{Value: kindStructGet, Weight: w.StructGet})
	}
	if len(assignableStructs) > 0 {
		table = append(table, Choice[instKind]{Value: kindStructSet, Weight: w.StructSet})
	}

	switch PickWeighted(g.rand, table) {
	case kindCall:
		callee := PickOne(g.rand, callable)
		dst := b.define(callee.ReturnType())
		args := make([]ir.NameID, callee.NumParams)
		for i, p := range callee.Params() {
			args[i] = b.pickValue(p.Ty)
		}
		return &ir.CallInst{Dst: dst, Callee: callee.Ordinal, Args: args}

	case kindBinary:
		opty := PickOne(g.rand, scalarTypes)
		dst := b.define(opty)
		left := b.pickValue(opty)
		op := PickOne(g.rand, ir.BinaryOps)
		right := b.pickValue(opty)
		return &ir.BinaryInst{Dst: dst, Left: left, Op: op, Right: right}

	case kindVar:
		ty := PickOne(g.rand, b.env.typesWhere(nil))
		dst := b.define(ty)
		return &ir.VarInst{Dst: dst, Src: b.pickValue(ty)}

	case kindAssign:
		target := PickOne(g.rand, assignableVars)
		src := b.pickValueExcept(b.fn.Names[target].Ty, target)
		return &ir.AssignInst{Target: target, Src: src}

	case kindNewArray:
		elemTy := PickOne(g.rand, b.env.typesWhere(nil))
		elems := make([]ir.NameID, g.rand.IntRange(1, g.tun.ArrayLimit))
		for i := range elems {
			elems[i] = b.pickValue(elemTy)
		}
		dst := b.define(ir.ArrayType{Element: elemTy, Length: len(elems)})
		return &ir.NewArrayInst{Dst: dst, Elems: elems}

	case kindArrayGet:
		at := PickOne(g.rand, arrayTypes).(ir.ArrayType)
		arr := b.pickValue(at)
		dst := b.define(at.Element)
		index := g.rand.IntInclusive(0, at.Length-1)
		return &ir.ArrayGetInst{Dst: dst, Arr: arr, Index: index}

	case kindArraySet:
		target := PickOne(g.rand, assignableArrays)
		at := b.fn.Names[target].Ty.(ir.ArrayType)
		index := g.rand.IntInclusive(0, at.Length-1)
		src := b.pickValue(at.Element)
		return &ir.ArraySetInst{Target: target, Index: index, Src: src}

	case kindNewStruct:
		st := PickOne(g.rand, constructible)
		dst := b.define(st)
		vals := make([]ir.NameID, len(st.Properties))
		for i, prop := range st.Properties {
			vals[i] = b.pickValue(prop)
		}
		return &ir.NewStructInst{Dst: dst, Vals: vals}

	case kindStructGet:
		st := PickOne(g.rand, structTypes).(*ir.StructType)
		obj := b.pickValue(st)
		index := g.rand.IntInclusive(0, len(st.Properties)-1)
		dst := b.define(st.Properties[index])
		return &ir.StructGetInst{Dst: dst, Obj: obj, Index: index}

	case kindStructSet:
		target := PickOne(g.rand, assignableStructs)
		st := b.fn.Names[target].Ty.(*ir.StructType)
		var props []int
		for i, prop := range st.Properties {
			if b.env.inhabited(prop, 1) {
				props = append(props, i)
			}
		}
		index := PickOne(g.rand, props)
		src := b.pickValue(st.Properties[index])
		return &ir.StructSetInst{Target: target, Index: index, Src: src}

	default:
		panic("unreachable")
	}
}

// appendReturn picks the return value and closes the body. Candidates of
// the return type are ordered by expression size and the pick is weighted
// toward the largest, so the surviving program keeps most of what was
// built.
func (b *bodyBuilder) appendReturn() {
	fn := b.fn
	sizes := computeSizes(fn)

	candidates := append([]ir.NameID(nil), b.env.of(fn.ReturnType())...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return sizes[candidates[i]] < sizes[candidates[j]]
	})

	offset := -b.g.pickCount(b.g.tun.ReturnOffsetWeights)
	if offset < -len(candidates) {
		offset = -len(candidates)
	}
	fn.Insts = append(fn.Insts, &ir.ReturnInst{Src: candidates[len(candidates)+offset]})
}
