package gen

import "github.com/mvs-lang/benchgen/internal/ir"

const (
	typeKindFloat = iota
	typeKindArray
	typeKindStruct
)

// newType draws a fresh type with the full array budget.
func (g *Generator) newType(structs []*ir.StructType) ir.Type {
	return g.genType(structs, g.tun.ArrayLimit, g.tun.TypeWeights.Array)
}

// genType draws a random type. Nested arrays can explode size-wise, so
// choosing an array halves both the budget and the array weight for the
// element type, and the array length is drawn below the halved budget.
// Arrays are excluded outright once the budget drops under 4, and struct
// types are only drawn once at least one struct is declared.
func (g *Generator) genType(structs []*ir.StructType, budget, arrayWeight int) ir.Type {
	table := []Choice[int]{{Value: typeKindFloat, Weight: g.tun.TypeWeights.Float}}
	if budget >= 4 {
		table = append(table, Choice[int]{Value: typeKindArray, Weight: arrayWeight})
	}
	if len(structs) > 0 {
		table = append(table, Choice[int]{Value: typeKindStruct, Weight: g.tun.TypeWeights.Struct})
	}

	switch PickWeighted(g.rand, table) {
	case typeKindArray:
		budget /= 2
		elem := g.genType(structs, budget, arrayWeight/2)
		return ir.ArrayType{Element: elem, Length: g.rand.IntRange(1, budget)}
	case typeKindStruct:
		return PickOne(g.rand, structs)
	default:
		return ir.Scalar
	}
}
