// Command scifoot simulates 5-a-side matches between teams of scientists.
package main

import (
	"fmt"
	"os"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
