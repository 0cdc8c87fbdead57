// Package main is the entry point for shevctl, the command line client
// for a running shevd instance.
package main

import (
	"os"

	"shev/cmd/shevctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
