// Command fogsched is the fog-computing scheduler's entrypoint: a thin
// wrapper around internal/cli's cobra command tree.
package main

import (
	"fmt"
	"os"

	"fog-compute/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
