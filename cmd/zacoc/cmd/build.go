package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zacostudio/zaco-compiler/internal/backend"
	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/linker"
	"github.com/zacostudio/zaco-compiler/internal/lower"
	"github.com/zacostudio/zaco-compiler/internal/projectcfg"
)

var (
	buildOutput string
	buildPasses []string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Check, lower, link and emit a Zaco project",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("project")
		cfg, err := projectcfg.Load(dir)
		if err != nil {
			return err
		}
		bag := diag.NewBag(resolveMaxErrors(cmd, cfg))

		parsed, err := parseProject(dir, cfg, bag)
		if err != nil {
			return err
		}
		checkUnits(parsed, bag)
		if bag.HasErrors() {
			fmt.Print(diag.Render(bag))
			return exitErrorf("build failed: %s", diag.Summary(bag))
		}

		units := lowerUnits(parsed)
		linked, err := linker.Link(units, entryRelPath(cfg))
		if err != nil {
			return err
		}
		if len(buildPasses) > 0 {
			lower.RunPasses(linked, buildPasses)
		}

		be, err := resolveBackend(cfg.Backend)
		if err != nil {
			return err
		}
		out, err := be.Emit(linked)
		if err != nil {
			return fmt.Errorf("backend %s: %w", be.Name(), err)
		}

		if buildOutput == "" || buildOutput == "-" {
			fmt.Println(string(out))
			return nil
		}
		if err := os.WriteFile(buildOutput, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", buildOutput, err)
		}
		warnf("wrote %s (%d bytes)", buildOutput, len(out))
		return nil
	},
}

func resolveBackend(name string) (backend.Backend, error) {
	switch name {
	case "", "noop":
		return backend.Noop{}, nil
	default:
		return nil, exitErrorf("unknown backend %q", name)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file (default: stdout)")
	buildCmd.Flags().StringSliceVar(&buildPasses, "opt", nil, "optimization passes to run on the linked module (e.g. fold-const-binops)")
}
