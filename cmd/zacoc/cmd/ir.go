package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/projectcfg"
)

var irDebugDump bool

var irCmd = &cobra.Command{
	Use:   "ir",
	Short: "Print each module's lowered IR before linking",
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
			return exitErrorf("cannot lower: %s", diag.Summary(bag))
		}

		for _, u := range lowerUnits(parsed) {
			if irDebugDump {
				fmt.Printf("// %s (debug dump)\n%# v\n\n", u.Path, pretty.Formatter(u.Module))
				continue
			}
			fmt.Printf("// %s\n%s\n", u.Path, u.Module.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(irCmd)
	irCmd.Flags().BoolVar(&irDebugDump, "debug-dump", false, "dump the full IR module structure instead of the textual form")
}
