// Package interp executes candidate programs on their deterministic inputs
// and screens out the ones that would make poor benchmarks.
package interp

import (
	"errors"
	"fmt"

	"github.com/mvs-lang/benchgen/internal/ir"
)

// Screening errors. A candidate hitting one of these is discarded and a
// fresh one generated; they are expected outcomes, not faults.
var (
	ErrDivideByZero   = errors.New("division by zero")
	ErrBudgetExceeded = errors.New("operation budget exceeded")
	ErrTooTrivial     = errors.New("program does too little work")
)

// Validate runs a candidate program from its entry function on the
// canonical inputs. It fails with ErrBudgetExceeded once more than opLimit
// instructions have run, with ErrDivideByZero when a division meets a zero
// denominator, and with ErrTooTrivial when the whole run needs minOps
// instructions or fewer.
//
// On success it returns a narrowed program: only the functions that were
// actually called and the structs whose values were actually built remain,
// in their original order, and Meta records how many instructions of each
// kind ran.
func Validate(p *ir.Program, opLimit, minOps int) (*ir.Program, error) {
	v := &evaluator{
		prog:    p,
		opLimit: opLimit,
		opCount: make(map[string]int),
		called:  make(map[int]bool),
		structs: make(map[string]bool),
	}

	entry := p.Entry()
	args := ir.InitialValues(paramTypes(entry))
	for _, arg := range args {
		v.markStructs(arg)
	}

	if _, err := v.call(entry, args); err != nil {
		return nil, err
	}
	if v.total <= minOps {
		return nil, ErrTooTrivial
	}

	funcs := make([]*ir.Func, 0, len(p.Funcs))
	for _, fn := range p.Funcs {
		if v.called[fn.Ordinal] {
			funcs = append(funcs, fn)
		}
	}
	structs := make([]*ir.StructType, 0, len(p.Structs))
	for _, st := range p.Structs {
		if v.structs[st.Name] {
			structs = append(structs, st)
		}
	}

	return &ir.Program{
		Structs: structs,
		Funcs:   funcs,
		Meta:    &ir.Meta{OpCount: v.opCount, TotalCount: v.total},
	}, nil
}

// evaluator runs a program over ir values, counting every instruction it
// touches and recording which functions and structs the run reaches.
type evaluator struct {
	prog    *ir.Program
	opLimit int
	total   int
	opCount map[string]int
	called  map[int]bool
	structs map[string]bool
}

func (v *evaluator) count(inst ir.Inst) error {
	v.opCount[inst.Kind()]++
	v.total++
	if v.total > v.opLimit {
		return ErrBudgetExceeded
	}
	return nil
}

// markStructs records every struct type occurring in a value tree.
func (v *evaluator) markStructs(val ir.Value) {
	switch val := val.(type) {
	case ir.ArrayValue:
		for _, el := range val {
			v.markStructs(el)
		}
	case ir.StructValue:
		v.structs[val.Name] = true
		for _, f := range val.Fields {
			v.markStructs(f)
		}
	}
}

// call runs one function. Bindings have value semantics: every read and
// write moves a deep copy, so mutating through one name is never visible
// through another. All emitted dialects behave this way.
func (v *evaluator) call(fn *ir.Func, args []ir.Value) (ir.Value, error) {
	v.called[fn.Ordinal] = true

	env := make([]ir.Value, len(fn.Names))
	copy(env, args)

	for _, inst := range fn.Insts {
		if err := v.count(inst); err != nil {
			return nil, err
		}

		switch inst := inst.(type) {
		case *ir.BinaryInst:
			res, err := binary(inst.Op, env[inst.Left].(ir.ScalarValue), env[inst.Right].(ir.ScalarValue))
			if err != nil {
				return nil, err
			}
			env[inst.Dst] = res
		case *ir.ReturnInst:
			return env[inst.Src], nil
		case *ir.CallInst:
			callArgs := make([]ir.Value, len(inst.Args))
			for i, arg := range inst.Args {
				callArgs[i] = ir.CloneValue(env[arg])
			}
			res, err := v.call(v.prog.Funcs[inst.Callee], callArgs)
			if err != nil {
				return nil, err
			}
			env[inst.Dst] = res
		case *ir.VarInst:
			env[inst.Dst] = ir.CloneValue(env[inst.Src])
		case *ir.AssignInst:
			env[inst.Target] = ir.CloneValue(env[inst.Src])
		case *ir.NewArrayInst:
			arr := make(ir.ArrayValue, len(inst.Elems))
			for i, el := range inst.Elems {
				arr[i] = ir.CloneValue(env[el])
			}
			env[inst.Dst] = arr
		case *ir.ArrayGetInst:
			env[inst.Dst] = ir.CloneValue(env[inst.Arr].(ir.ArrayValue)[inst.Index])
		case *ir.ArraySetInst:
			env[inst.Target].(ir.ArrayValue)[inst.Index] = ir.CloneValue(env[inst.Src])
		case *ir.NewStructInst:
			st := fn.Names[inst.Dst].Ty.(*ir.StructType)
			v.structs[st.Name] = true
			fields := make([]ir.Value, len(inst.Vals))
			for i, val := range inst.Vals {
				fields[i] = ir.CloneValue(env[val])
			}
			env[inst.Dst] = ir.StructValue{Name: st.Name, Fields: fields}
		case *ir.StructGetInst:
			env[inst.Dst] = ir.CloneValue(env[inst.Obj].(ir.StructValue).Fields[inst.Index])
		case *ir.StructSetInst:
			env[inst.Target].(ir.StructValue).Fields[inst.Index] = ir.CloneValue(env[inst.Src])
		default:
			return nil, fmt.Errorf("unknown instruction type %T", inst)
		}
	}
	return nil, fmt.Errorf("%s ended without a return", fn.Name.Str)
}

func binary(op ir.BinaryOp, l, r ir.ScalarValue) (ir.Value, error) {
	switch op {
	case ir.OpAdd:
		return l + r, nil
	case ir.OpSub:
		return l - r, nil
	case ir.OpMul:
		return l * r, nil
	case ir.OpDiv:
		if r == 0 {
			return nil, ErrDivideByZero
		}
		return l / r, nil
	default:
		return nil, fmt.Errorf("unknown binary operator %q", op)
	}
}

func paramTypes(fn *ir.Func) []ir.Type {
	types := make([]ir.Type, fn.NumParams)
	for i, p := range fn.Params() {
		types[i] = p.Ty
	}
	return types
}
