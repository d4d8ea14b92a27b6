// Command annotype builds and checks Union and Tuple descriptors declared in
// YAML or CUE definition files.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/annotype/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
