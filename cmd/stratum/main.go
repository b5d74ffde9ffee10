// Command stratum inspects, validates, and archives encoded stencil
// instantiation units.
package main

import (
	"os"

	"github.com/seistools/stratum/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
