// Package cli implements the benchgen command.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvs-lang/benchgen/internal/emit"
	"github.com/mvs-lang/benchgen/internal/gen"
	"github.com/mvs-lang/benchgen/internal/ir"
	"github.com/mvs-lang/benchgen/internal/pipeline"
)

const appName = "benchgen"

func NewRootCmd() *cobra.Command {
	var (
		count        int
		outDir       string
		seed         int64
		tunablesPath string
		dialectNames []string
		dump         bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Random benchmark program generator for MVS, Swift, Scala and C++",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}

			tun := gen.Default()
			if tunablesPath != "" {
				loaded, err := gen.Load(tunablesPath)
				if err != nil {
					return err
				}
				tun = loaded
			}

			var dialects []emit.Dialect
			if len(dialectNames) == 0 {
				dialects = emit.All()
			} else {
				for _, name := range dialectNames {
					d, err := emit.ByName(name)
					if err != nil {
						return err
					}
					dialects = append(dialects, d)
				}
			}

			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			disp := &display{quiet: quiet}
			disp.header(seed)

			stream := gen.NewStream(seed)
			for i := 0; i < count; i++ {
				prefix := pipeline.NextPrefix(outDir)
				disp.begin(prefix)

				p, attempts, err := pipeline.Generate(stream, tun)
				if err != nil {
					disp.fail(prefix)
					return err
				}

				sources := pipeline.Render(p, tun, dialects...)
				paths, err := pipeline.Write(outDir, prefix, p, sources)
				if err != nil {
					disp.fail(prefix)
					return err
				}
				disp.done(prefix, attempts, paths)

				if dump {
					fmt.Fprint(cmd.OutOrStdout(), ir.Format(p))
				}
			}

			disp.summary(count, outDir)
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of programs to generate")
	cmd.Flags().StringVarP(&outDir, "out", "o", "src", "output directory")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "seed for deterministic generation")
	cmd.Flags().StringVar(&tunablesPath, "tunables", "", "path to a tunables TOML file")
	cmd.Flags().StringSliceVar(&dialectNames, "dialect", nil, "dialect to emit (repeatable, default all)")
	cmd.Flags().BoolVar(&dump, "dump", false, "print each accepted program's listing")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress terminal decoration")

	return cmd
}
