package cmd

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"
	"github.com/zacostudio/zaco-compiler/internal/projectcfg"
)

// discoverSources walks every directory in cfg.SourceDirs and returns
// the project's *.zaco files in natural order (so file10.zaco sorts
// after file2.zaco, matching how a human lays out a numbered module
// set), relative to dir.
func discoverSources(dir string, cfg *projectcfg.Config) ([]string, error) {
	var paths []string
	for _, sourceDir := range cfg.SourceDirs {
		root := filepath.Join(dir, sourceDir)
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".zaco" {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = path
			}
			paths = append(paths, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Sort(natural.Strings(paths))
	return paths, nil
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the project's source modules in natural path order",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("project")
		cfg, err := projectcfg.Load(dir)
		if err != nil {
			return err
		}
		paths, err := discoverSources(dir, cfg)
		if err != nil {
			return err
		}
		for _, p := range paths {
			cmd.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
