// Command zacoc is the whole-program ahead-of-time compiler driver:
// it discovers a project's source modules, checks and lowers each one,
// links them into a single program, and hands the result to a Backend.
package main

import (
	"fmt"
	"os"

	"github.com/zacostudio/zaco-compiler/cmd/zacoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
