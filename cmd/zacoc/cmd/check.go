package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/projectcfg"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Type- and ownership-check a project without lowering or linking",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("project")
		cfg, err := projectcfg.Load(dir)
		if err != nil {
			return err
		}
		bag := diag.NewBag(resolveMaxErrors(cmd, cfg))

		units, err := parseProject(dir, cfg, bag)
		if err != nil {
			return err
		}
		checkUnits(units, bag)

		if checkJSON {
			out, err := diag.RenderJSON(bag)
			if err != nil {
				return err
			}
			fmt.Println(out)
		} else {
			fmt.Print(diag.Render(bag))
		}
		if bag.HasErrors() {
			return exitErrorf("check failed: %s", diag.Summary(bag))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit diagnostics as JSON")
}
