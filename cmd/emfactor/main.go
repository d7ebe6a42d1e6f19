// Command emfactor is the CLI entry point for the emission factor
// resolution engine.
package main

import (
	"context"
	"os"

	"github.com/greenledger/emfactor/internal/cli"
	"github.com/greenledger/emfactor/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to an exit status.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}
