package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "zacoc",
	Short: "Whole-program ahead-of-time compiler for the Zaco language",
	Long: `zacoc compiles a Zaco project to a single linked program.

Zaco is a TypeScript-flavored source language with an ownership model
(owned/ref/mut ref/clone) checked ahead of time rather than garbage
collected at run time. zacoc discovers every module under a project's
source directories, type- and ownership-checks it, lowers it to a
basic-block IR, links the modules into one program, and hands the
result to a code generation backend.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringP("project", "C", ".", "project directory (containing zaco.yaml)")
	rootCmd.PersistentFlags().Int("max-errors", -1, "stop checking after this many errors (-1: use zaco.yaml, 0: unlimited)")
}

func exitErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
