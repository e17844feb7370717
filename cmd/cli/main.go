// Package main is the entry point for the dive-pricing CLI.
package main

import (
	"os"

	"dive-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
