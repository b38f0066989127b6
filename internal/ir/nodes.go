package ir

// --- Types ---

// Type is the interface for all value types. The set is closed: the scalar
// type, fixed-length arrays, and declared structs.
type Type interface {
	typeNode()
	String() string
}

// ScalarType is the 64-bit floating-point type, the only primitive.
type ScalarType struct{}

func (ScalarType) typeNode()      {}
func (ScalarType) String() string { return "Float" }

// Scalar is the shared ScalarType instance.
var Scalar = ScalarType{}

// ArrayType is a fixed-length array type. Array types are used by value and
// compare structurally: two arrays with equal element type and length are
// the same type.
type ArrayType struct {
	Element Type
	Length  int
}

func (ArrayType) typeNode()        {}
func (t ArrayType) String() string { return "[" + t.Element.String() + "]" }

// StructType is a nominal product type with positional properties
// (p0, p1, ...). Struct types are used by pointer: the declaration is the
// identity. Properties may reference scalars, arrays, or structs declared
// earlier; never the struct itself or a later one.
type StructType struct {
	Name       string
	Properties []Type
}

func (*StructType) typeNode()        {}
func (t *StructType) String() string { return t.Name }

// --- Names ---

// NameID indexes a function's name arena.
type NameID int32

// Name binds an identifier to its type. For function names the identifier is
// f0, f1, ... and Ty is the return type.
type Name struct {
	Str string
	Ty  Type
}

// BinaryOp is one of the four scalar arithmetic operators.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
)

// BinaryOps lists the operators in sampling order.
var BinaryOps = []BinaryOp{OpAdd, OpSub, OpMul, OpDiv}

// --- Instructions ---

// Inst is the interface for all instruction nodes. The set is closed;
// every consumer switches exhaustively over it. Operands reference the
// enclosing function's name arena by NameID. Kind returns the node's type
// name and keys the validator's execution counters.
type Inst interface {
	instNode()
	Kind() string
}

// BinaryInst computes a scalar arithmetic operation, defining Dst.
type BinaryInst struct {
	Dst   NameID
	Left  NameID
	Op    BinaryOp
	Right NameID
}

func (*BinaryInst) instNode()    {}
func (*BinaryInst) Kind() string { return "BinaryInst" }

// ReturnInst ends a function body, yielding Src. It is always the last
// instruction and occurs exactly once per function.
type ReturnInst struct {
	Src NameID
}

func (*ReturnInst) instNode()    {}
func (*ReturnInst) Kind() string { return "ReturnInst" }

// CallInst invokes the function with ordinal Callee, defining Dst. Callee
// is always strictly greater than the calling function's ordinal.
type CallInst struct {
	Dst    NameID
	Callee int
	Args   []NameID
}

func (*CallInst) instNode()    {}
func (*CallInst) Kind() string { return "CallInst" }

// VarInst declares a mutable local initialized from Src, defining Dst.
// Only names defined by VarInst may be written by Assign/ArraySet/StructSet.
type VarInst struct {
	Dst NameID
	Src NameID
}

func (*VarInst) instNode()    {}
func (*VarInst) Kind() string { return "VarInst" }

// AssignInst overwrites the mutable local Target with Src.
type AssignInst struct {
	Target NameID
	Src    NameID
}

func (*AssignInst) instNode()    {}
func (*AssignInst) Kind() string { return "AssignInst" }

// NewArrayInst constructs an array from existing names, defining Dst.
type NewArrayInst struct {
	Dst   NameID
	Elems []NameID
}

func (*NewArrayInst) instNode()    {}
func (*NewArrayInst) Kind() string { return "NewArrayInst" }

// ArrayGetInst reads element Index of Arr, defining Dst. Index is a literal
// within the array type's length.
type ArrayGetInst struct {
	Dst   NameID
	Arr   NameID
	Index int
}

func (*ArrayGetInst) instNode()    {}
func (*ArrayGetInst) Kind() string { return "ArrayGetInst" }

// ArraySetInst overwrites element Index of the mutable array local Target.
type ArraySetInst struct {
	Target NameID
	Index  int
	Src    NameID
}

func (*ArraySetInst) instNode()    {}
func (*ArraySetInst) Kind() string { return "ArraySetInst" }

// NewStructInst constructs a struct value from existing names, one per
// property, defining Dst.
type NewStructInst struct {
	Dst  NameID
	Vals []NameID
}

func (*NewStructInst) instNode()    {}
func (*NewStructInst) Kind() string { return "NewStructInst" }

// StructGetInst reads property Index of Obj, defining Dst.
type StructGetInst struct {
	Dst   NameID
	Obj   NameID
	Index int
}

func (*StructGetInst) instNode()    {}
func (*StructGetInst) Kind() string { return "StructGetInst" }

// StructSetInst overwrites property Index of the mutable struct local Target.
type StructSetInst struct {
	Target NameID
	Index  int
	Src    NameID
}

func (*StructSetInst) instNode()    {}
func (*StructSetInst) Kind() string { return "StructSetInst" }

// --- Functions and programs ---

// Func is a generated function. The name arena holds the parameters first
// (Names[:NumParams], identifiers v0..v{k-1}) followed by every instruction
// result in definition order. Every operand is declared before use and the
// body ends in the single ReturnInst, whose operand has the declared return
// type.
type Func struct {
	Ordinal   int
	Name      Name
	NumParams int
	Names     []Name
	Insts     []Inst
}

// Params returns the parameter prefix of the name arena.
func (f *Func) Params() []Name { return f.Names[:f.NumParams] }

// ReturnType returns the declared return type.
func (f *Func) ReturnType() Type { return f.Name.Ty }

// Meta records the validator's dynamic execution counts, keyed by
// instruction kind. Downstream tooling buckets benchmark results by these.
type Meta struct {
	OpCount    map[string]int `json:"op_count"`
	TotalCount int            `json:"total_count"`
}

// Program is the single source of truth for one generated candidate.
// Funcs[0] is the entry point f0 and always returns a scalar; call edges go
// only from lower to higher ordinals. Structs are declared in dependency
// order. Meta is nil until validation.
type Program struct {
	Structs []*StructType
	Funcs   []*Func
	Meta    *Meta
}

// Entry returns the entry-point function.
func (p *Program) Entry() *Func { return p.Funcs[0] }
