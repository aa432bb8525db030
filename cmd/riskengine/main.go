package main

import (
	"github.com/aera-platform/riskengine/cmd/cli"
)

// main is the entry point for the riskengine command-line tool. It
// delegates all execution to the cli package.
func main() {
	cli.Execute()
}
