// Command desk is the loaner-equipment custody ledger.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/desk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
