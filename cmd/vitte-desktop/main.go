// Command vitte-desktop exercises the desktop shim from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/vitte-lang/desktop/cmd/vitte-desktop/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
