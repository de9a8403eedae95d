// Command stage validates stage.yaml files and simulates pool and surface
// scripts against a headless host.
package main

import (
	"os"

	"github.com/go-drift/stage/cmd/stage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
