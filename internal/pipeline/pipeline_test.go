package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvs-lang/benchgen/internal/emit"
	"github.com/mvs-lang/benchgen/internal/gen"
	"github.com/mvs-lang/benchgen/internal/ir"
	"github.com/stretchr/testify/require"
)

// fixtureProgram is a minimal accepted program: one struct, one entry
// function reading a property, with the metadata a real run would carry.
func fixtureProgram() *ir.Program {
	s0 := &ir.StructType{Name: "s0", Properties: []ir.Type{ir.Scalar, ir.Scalar}}
	f0 := &ir.Func{
		Ordinal:   0,
		Name:      ir.Name{Str: "f0", Ty: ir.Scalar},
		NumParams: 1,
		Names: []ir.Name{
			{Str: "v0", Ty: s0},
			{Str: "v1", Ty: ir.Scalar},
		},
		Insts: []ir.Inst{
			&ir.StructGetInst{Dst: 1, Obj: 0, Index: 1},
			&ir.ReturnInst{Src: 1},
		},
	}
	return &ir.Program{
		Structs: []*ir.StructType{s0},
		Funcs:   []*ir.Func{f0},
		Meta: &ir.Meta{
			OpCount:    map[string]int{"StructGetInst": 1, "ReturnInst": 1},
			TotalCount: 2,
		},
	}
}

// --- Accept loop ---

func TestGenerateAcceptsACandidate(t *testing.T) {
	tun := gen.Default()
	p, attempts, err := Generate(gen.NewStream(1), tun)
	require.NoError(t, err)
	require.GreaterOrEqual(t, attempts, 1)
	require.Greater(t, p.Meta.TotalCount, tun.MinOps)
	require.Empty(t, ir.Validate(p))
}

func TestGenerateIsDeterministic(t *testing.T) {
	tun := gen.Default()
	p1, attempts1, err := Generate(gen.NewStream(7), tun)
	require.NoError(t, err)
	p2, attempts2, err := Generate(gen.NewStream(7), tun)
	require.NoError(t, err)

	require.Equal(t, attempts1, attempts2)
	require.Equal(t, ir.Format(p1), ir.Format(p2))
}

func TestGenerateAdvancesTheStream(t *testing.T) {
	tun := gen.Default()
	stream := gen.NewStream(7)
	p1, _, err := Generate(stream, tun)
	require.NoError(t, err)
	p2, _, err := Generate(stream, tun)
	require.NoError(t, err)

	require.NotEqual(t, ir.Format(p1), ir.Format(p2))
}

// --- Rendering ---

func TestRenderAllDialects(t *testing.T) {
	sources := Render(fixtureProgram(), gen.Default())

	require.Len(t, sources, 4)
	for _, name := range []string{"cpp", "scala", "swift", "mvs"} {
		require.Contains(t, sources, name)
		require.Contains(t, sources[name], "f0")
		require.Contains(t, sources[name], "1000")
	}
}

func TestRenderSelectedDialects(t *testing.T) {
	sources := Render(fixtureProgram(), gen.Default(), emit.Swift)

	require.Len(t, sources, 1)
	require.Contains(t, sources["swift"], "import Dispatch")
}

func TestRenderHonorsIterations(t *testing.T) {
	tun := gen.Default()
	tun.Iterations = 250
	sources := Render(fixtureProgram(), tun, emit.CPP)

	require.Contains(t, sources["cpp"], "i < 250;")
}

// --- Output files ---

func TestWriteProducesMetadataAndSources(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	p := fixtureProgram()
	sources := Render(p, gen.Default())

	paths, err := Write(dir, "gen1", p, sources)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "gen1.json"),
		filepath.Join(dir, "gen1.cpp"),
		filepath.Join(dir, "gen1.scala"),
		filepath.Join(dir, "gen1.swift"),
		filepath.Join(dir, "gen1.mvs"),
	}, paths)

	raw, err := os.ReadFile(filepath.Join(dir, "gen1.json"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"op_count"`)
	require.Contains(t, string(raw), `"total_count"`)
	var meta ir.Meta
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.Equal(t, *p.Meta, meta)

	swift, err := os.ReadFile(filepath.Join(dir, "gen1.swift"))
	require.NoError(t, err)
	require.Equal(t, sources["swift"], string(swift))
}

func TestWriteSkipsAbsentDialects(t *testing.T) {
	dir := t.TempDir()
	p := fixtureProgram()

	paths, err := Write(dir, "gen1", p, Render(p, gen.Default(), emit.MVS))
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "gen1.json"),
		filepath.Join(dir, "gen1.mvs"),
	}, paths)

	_, err = os.Stat(filepath.Join(dir, "gen1.cpp"))
	require.True(t, os.IsNotExist(err))
}

// --- Prefix probing ---

func TestNextPrefixSkipsProducedPrograms(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, "gen1", NextPrefix(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen1.json"), []byte("{}"), 0644))
	require.Equal(t, "gen2", NextPrefix(dir))

	// A stray source file without its metadata record does not reserve
	// the prefix.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen2.cpp"), []byte("int main;"), 0644))
	require.Equal(t, "gen2", NextPrefix(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen3.json"), []byte("{}"), 0644))
	require.Equal(t, "gen2", NextPrefix(dir))
}

// --- End to end ---

func TestPipelineEndToEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	tun := gen.Default()
	stream := gen.NewStream(3)

	for i := 0; i < 2; i++ {
		p, _, err := Generate(stream, tun)
		require.NoError(t, err)

		prefix := NextPrefix(dir)
		_, err = Write(dir, prefix, p, Render(p, tun))
		require.NoError(t, err)
	}

	for _, name := range []string{"gen1.json", "gen1.cpp", "gen2.json", "gen2.mvs"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}
