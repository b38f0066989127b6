package gen

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// TypeWeights weights the three type constructors drawn for fresh types.
type TypeWeights struct {
	Float  int `toml:"float"`
	Array  int `toml:"array"`
	Struct int `toml:"struct"`
}

// InstWeights weights the instruction forms drawn for function bodies.
// Forms whose operands cannot be satisfied at a given point are excluded
// from the draw regardless of weight.
type InstWeights struct {
	Call      int `toml:"call"`
	Binary    int `toml:"binary"`
	Var       int `toml:"var"`
	Assign    int `toml:"assign"`
	NewArray  int `toml:"new-array"`
	ArrayGet  int `toml:"array-get"`
	ArraySet  int `toml:"array-set"`
	NewStruct int `toml:"new-struct"`
	StructGet int `toml:"struct-get"`
	StructSet int `toml:"struct-set"`
}

// Tunables holds every generation and acceptance knob. The count weight
// slices are 1-based tables: entry i weights a count of i+1. Return offset
// entry i weights returning the i+1-th largest candidate.
type Tunables struct {
	StructLimit int `toml:"struct-limit"`
	FuncLimit   int `toml:"func-limit"`
	InstMin     int `toml:"inst-min"`
	InstLimit   int `toml:"inst-limit"`
	ArrayLimit  int `toml:"array-limit"`
	OpLimit     int `toml:"op-limit"`
	MinOps      int `toml:"min-ops"`
	Iterations  int `toml:"iterations"`

	TypeWeights          TypeWeights `toml:"type-weights"`
	InstWeights          InstWeights `toml:"inst-weights"`
	ParamCountWeights    []int       `toml:"param-count-weights"`
	PropertyCountWeights []int       `toml:"property-count-weights"`
	ReturnOffsetWeights  []int       `toml:"return-offset-weights"`
}

// Default returns the standard tunables. Struct and function counts are
// drawn below their limits, body lengths in [InstMin, InstLimit), and a
// program is accepted only when it executes more than MinOps and at most
// OpLimit instructions.
func Default() Tunables {
	return Tunables{
		StructLimit: 16,
		FuncLimit:   128,
		InstMin:     8,
		InstLimit:   256,
		ArrayLimit:  8,
		OpLimit:     5000,
		MinOps:      10,
		Iterations:  1000,
		TypeWeights: TypeWeights{Float: 1, Array: 50, Struct: 50},
		InstWeights: InstWeights{
			Call:      10,
			Binary:    1,
			Var:       10,
			Assign:    1,
			NewArray:  1,
			ArrayGet:  10,
			ArraySet:  5,
			NewStruct: 1,
			StructGet: 10,
			StructSet: 5,
		},
		ParamCountWeights:    []int{100, 80, 40, 20, 10, 5, 3, 1},
		PropertyCountWeights: []int{40, 1000, 80, 40, 20, 10, 5, 5},
		ReturnOffsetWeights:  []int{100, 50, 25, 10, 5, 3, 2, 1},
	}
}

// Validate checks that the tunables describe a generable program space.
func (t Tunables) Validate() error {
	if t.StructLimit < 1 {
		return fmt.Errorf("struct-limit must be at least 1, got %d", t.StructLimit)
	}
	if t.FuncLimit < 2 {
		return fmt.Errorf("func-limit must be at least 2, got %d", t.FuncLimit)
	}
	if t.InstMin < 1 {
		return fmt.Errorf("inst-min must be at least 1, got %d", t.InstMin)
	}
	if t.InstLimit <= t.InstMin {
		return fmt.Errorf("inst-limit %d must exceed inst-min %d", t.InstLimit, t.InstMin)
	}
	if t.ArrayLimit < 2 {
		return fmt.Errorf("array-limit must be at least 2, got %d", t.ArrayLimit)
	}
	if t.MinOps < 0 {
		return fmt.Errorf("min-ops must not be negative, got %d", t.MinOps)
	}
	if t.OpLimit <= t.MinOps {
		return fmt.Errorf("op-limit %d must exceed min-ops %d", t.OpLimit, t.MinOps)
	}
	if t.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", t.Iterations)
	}

	// Scalars must stay drawable when arrays and structs are pruned, and a
	// body must always have a legal instruction form to fall back on.
	if t.TypeWeights.Float < 1 {
		return fmt.Errorf("type-weights.float must be at least 1, got %d", t.TypeWeights.Float)
	}
	if t.TypeWeights.Array < 0 || t.TypeWeights.Struct < 0 {
		return fmt.Errorf("type weights must not be negative")
	}
	if t.InstWeights.Var < 1 {
		return fmt.Errorf("inst-weights.var must be at least 1, got %d", t.InstWeights.Var)
	}
	for _, w := range []int{
		t.InstWeights.Call, t.InstWeights.Binary, t.InstWeights.Assign,
		t.InstWeights.NewArray, t.InstWeights.ArrayGet, t.InstWeights.ArraySet,
		t.InstWeights.NewStruct, t.InstWeights.StructGet, t.InstWeights.StructSet,
	} {
		if w < 0 {
			return fmt.Errorf("instruction weights must not be negative")
		}
	}

	for name, weights := range map[string][]int{
		"param-count-weights":    t.ParamCountWeights,
		"property-count-weights": t.PropertyCountWeights,
		"return-offset-weights":  t.ReturnOffsetWeights,
	} {
		total := 0
		for _, w := range weights {
			if w < 0 {
				return fmt.Errorf("%s must not contain negative entries", name)
			}
			total += w
		}
		if total < 1 {
			return fmt.Errorf("%s must have a positive total weight", name)
		}
	}

	return nil
}

// Load reads tunables from a TOML file. Loading starts from the defaults,
// so a file only needs to list the knobs it changes.
func Load(path string) (Tunables, error) {
	t := Default()

	buff, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read tunables: %w", err)
	}
	if err := toml.Unmarshal(buff, &t); err != nil {
		return t, fmt.Errorf("failed to parse tunables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tunables: %w", err)
	}

	return t, nil
}
