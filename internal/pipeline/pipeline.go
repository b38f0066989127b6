// Package pipeline drives one program from random candidate to files on
// disk: the accept loop around generation and screening, rendering in
// every requested dialect, and output naming that resumes where a
// previous run stopped.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvs-lang/benchgen/internal/emit"
	"github.com/mvs-lang/benchgen/internal/gen"
	"github.com/mvs-lang/benchgen/internal/interp"
	"github.com/mvs-lang/benchgen/internal/ir"
)

// Generate draws candidates from stream until one survives screening,
// then returns the narrowed program and the number of attempts it took.
// Screening rejections are expected and retried silently; any other
// failure is returned. The caller keeps ownership of the stream, so
// consecutive calls continue the same random sequence instead of
// regenerating the same candidate.
func Generate(stream *gen.Stream, tun gen.Tunables) (*ir.Program, int, error) {
	for attempts := 1; ; attempts++ {
		candidate := gen.FromStream(stream, tun).Program()
		p, err := interp.Validate(candidate, tun.OpLimit, tun.MinOps)
		if err == nil {
			return p, attempts, nil
		}
		if errors.Is(err, interp.ErrDivideByZero) ||
			errors.Is(err, interp.ErrBudgetExceeded) ||
			errors.Is(err, interp.ErrTooTrivial) {
			continue
		}
		return nil, attempts, err
	}
}

// Render renders p in each requested dialect, keyed by dialect name.
// With no dialects named it renders all of them.
func Render(p *ir.Program, tun gen.Tunables, dialects ...emit.Dialect) map[string]string {
	if len(dialects) == 0 {
		dialects = emit.All()
	}
	sources := make(map[string]string, len(dialects))
	for _, d := range dialects {
		sources[d.Name()] = emit.Render(d, p, tun.Iterations)
	}
	return sources
}

// Write stores one generated program under dir: the metadata record as
// {prefix}.json, then one source file per rendered dialect. It returns
// the written paths in that order.
func Write(dir, prefix string, p *ir.Program, sources map[string]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	meta, err := json.Marshal(p.Meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	metaPath := filepath.Join(dir, prefix+".json")
	if err := os.WriteFile(metaPath, meta, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", metaPath, err)
	}
	paths := []string{metaPath}

	for _, d := range emit.All() {
		src, ok := sources[d.Name()]
		if !ok {
			continue
		}
		path := filepath.Join(dir, prefix+d.Ext())
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// NextPrefix returns the first genN prefix, counting from gen1, whose
// metadata record does not exist under dir. Only the metadata file
// reserves a prefix; stray source files do not.
func NextPrefix(dir string) string {
	for i := 1; ; i++ {
		prefix := fmt.Sprintf("gen%d", i)
		if _, err := os.Stat(filepath.Join(dir, prefix+".json")); os.IsNotExist(err) {
			return prefix
		}
	}
}
