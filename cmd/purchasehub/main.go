// Command purchasehub is the operator entrypoint: it serves the API, runs the
// worker, manages the schema and drives the resources from the terminal.
package main

import (
	"os"

	"github.com/Additional-Code/purchasehub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
