package ir

import "fmt"

// Value is a runtime value: a scalar, an array instance, or a struct
// instance. Values exist only while a program is interpreted or while its
// deterministic inputs are rendered as literals; they are never stored in
// the IR tree.
type Value interface {
	valueNode()
}

// ScalarValue is a scalar runtime value.
type ScalarValue float64

func (ScalarValue) valueNode() {}

// ArrayValue is an array instance.
type ArrayValue []Value

func (ArrayValue) valueNode() {}

// StructValue is a struct instance. Fields are positional, matching the
// declaration's property order.
type StructValue struct {
	Name   string
	Fields []Value
}

func (StructValue) valueNode() {}

// CloneValue returns a deep copy of v. Composite values share no storage
// with the original, so writes through one binding are never observable
// through another.
func CloneValue(v Value) Value {
	switch v := v.(type) {
	case ScalarValue:
		return v
	case ArrayValue:
		out := make(ArrayValue, len(v))
		for i, elem := range v {
			out[i] = CloneValue(elem)
		}
		return out
	case StructValue:
		fields := make([]Value, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = CloneValue(f)
		}
		return StructValue{Name: v.Name, Fields: fields}
	default:
		panic(fmt.Sprintf("unknown value: %T", v))
	}
}

// InitialValues builds the canonical deterministic inputs for a type list:
// every scalar slot receives 0.0, 1.0, 2.0, ... depth-first across the whole
// list, with arrays and structs built to shape. The same procedure seeds the
// validator and the literal inputs of every emitted harness.
func InitialValues(types []Type) []Value {
	count := 0

	var build func(ty Type) Value
	build = func(ty Type) Value {
		switch ty := ty.(type) {
		case ScalarType:
			v := ScalarValue(float64(count))
			count++
			return v
		case ArrayType:
			arr := make(ArrayValue, ty.Length)
			for i := range arr {
				arr[i] = build(ty.Element)
			}
			return arr
		case *StructType:
			fields := make([]Value, len(ty.Properties))
			for i, prop := range ty.Properties {
				fields[i] = build(prop)
			}
			return StructValue{Name: ty.Name, Fields: fields}
		default:
			panic(fmt.Sprintf("unknown type: %v", ty))
		}
	}

	out := make([]Value, len(types))
	for i, ty := range types {
		out[i] = build(ty)
	}
	return out
}
